package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"ruangkampus/internal/catalog"
	"ruangkampus/internal/client"
	"ruangkampus/internal/config"
	"ruangkampus/internal/domain"
	"ruangkampus/internal/export"
	"ruangkampus/internal/logging"
	"ruangkampus/internal/models"
	"ruangkampus/internal/moderation"
	"ruangkampus/internal/session"
	"ruangkampus/internal/store"
	"ruangkampus/internal/validation"
	"ruangkampus/internal/workflow"

	"github.com/rs/zerolog"
)

const usage = `Usage: loanctl -user <name> [-locale id|en] <command> [flags]

Commands:
  rooms                              list the room catalog
  list [-status S] [-search Q] [-mine]  show the loan collection
  submit -room R -start T -end T -purpose P [-edit ID]
                                     submit a new request or save an edit
  cancel-edit                        drop the local draft
  approve -id ID                     approve a pending request (admins)
  reject -id ID                      reject a pending request (admins)
  delete -id ID                      delete a request (admins, asks first)
  export                             write the ledger to an Excel file
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	identity string
	locale   string
	catalog  *catalog.Catalog
	client   *client.LoanClient
	store    *store.LoanStore
	flow     *workflow.Controller
	stdin    *bufio.Reader
}

// newDraftRepository picks where drafts live: redis with a local fallback
// when an address is configured, plain memory otherwise. The cleanup func
// closes the redis connection.
func newDraftRepository(cfg *config.Config, logger *zerolog.Logger) (domain.DraftRepository, func()) {
	ttl := time.Duration(models.DefaultDraftTTL) * time.Second
	memory := session.NewMemoryDraftRepository(ttl)
	if cfg.Redis.Address == "" {
		return memory, func() {}
	}
	redisClient := session.NewRedisClient(cfg.Redis)
	primary := session.NewRedisDraftRepository(redisClient, ttl)
	return session.NewFailoverDraftRepository(primary, memory, logger),
		func() { _ = session.Close(redisClient) }
}

func workflowOptions(cfg *config.Config) []workflow.Option {
	var opts []workflow.Option
	if cfg.Workflow.SubmitLimit > 0 {
		window := time.Duration(cfg.Workflow.SubmitWindowSeconds) * time.Second
		opts = append(opts, workflow.WithSubmitLimit(cfg.Workflow.SubmitLimit, window))
	}
	return opts
}

func run(args []string) error {
	global := flag.NewFlagSet("loanctl", flag.ContinueOnError)
	user := global.String("user", "", "acting identity (borrower or admin name)")
	locale := global.String("locale", "id", "message locale: id or en")
	configPath := global.String("config", "configs/config.yaml", "path to config file")
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	if err := global.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		global.Usage()
		return errors.New("-user is required")
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("command is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := baseLogger.With().Str("component", "loanctl").Logger()

	cat := catalog.Default()
	if len(cfg.Rooms) > 0 {
		cat = catalog.New(cfg.Rooms)
	}

	loanClient := client.NewLoanClient(cfg.Client)
	loanStore := store.NewLoanStore(loanClient)
	drafts, closeDrafts := newDraftRepository(cfg, &logger)
	defer closeDrafts()
	flow := workflow.NewController(*user, loanClient, loanStore, drafts, cat, &logger, workflowOptions(cfg)...)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		identity: *user,
		locale:   *locale,
		catalog:  cat,
		client:   loanClient,
		store:    loanStore,
		flow:     flow,
		stdin:    bufio.NewReader(os.Stdin),
	}

	ctx := context.Background()
	if err := flow.Restore(ctx); err != nil {
		logger.Warn().Err(err).Msg("Could not restore saved draft")
	}
	command := global.Arg(0)
	rest := global.Args()[1:]

	switch command {
	case "rooms":
		return a.cmdRooms()
	case "list":
		return a.cmdList(ctx, rest)
	case "submit":
		return a.cmdSubmit(ctx, rest)
	case "cancel-edit":
		return a.flow.CancelEdit(ctx)
	case "approve", "reject", "delete":
		return a.cmdModerate(ctx, command, rest)
	case "export":
		return a.cmdExport(ctx)
	default:
		global.Usage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (a *app) cmdRooms() error {
	for _, name := range a.catalog.Names(a.locale) {
		fmt.Println(name)
	}
	return nil
}

func (a *app) cmdList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	status := fs.String("status", "", "filter by status: Pending, Approved, Rejected")
	search := fs.String("search", "", "case-insensitive search over borrower, room and purpose")
	mine := fs.Bool("mine", false, "only my own requests")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.store.Refresh(ctx); err != nil {
		return err
	}

	loans := a.store.Loans()
	if *status != "" {
		if !models.ValidStatus(*status) {
			return fmt.Errorf("unknown status: %s", *status)
		}
		loans = a.store.Filter(*status)
	}
	if *search != "" {
		loans = intersect(loans, a.store.Search(*search))
	}
	if *mine {
		loans = intersect(loans, a.store.Mine(a.identity))
	}

	if len(loans) == 0 {
		fmt.Println("No requests found.")
		return nil
	}
	for _, loan := range loans {
		printLoan(loan)
	}
	return nil
}

func (a *app) cmdSubmit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	room := fs.String("room", "", "room name (Indonesian or English)")
	start := fs.String("start", "", "start time, RFC3339")
	end := fs.String("end", "", "end time, RFC3339")
	purpose := fs.String("purpose", "", "purpose of the loan")
	editID := fs.Int64("edit", 0, "edit an existing pending request in place")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.store.Refresh(ctx); err != nil {
		return err
	}

	// A draft restored at the confirmation gate steps back so the flags
	// below can amend it; Submit revalidates either way.
	if a.flow.Phase() == workflow.PhaseConfirming {
		if err := a.flow.CancelConfirm(ctx); err != nil {
			return err
		}
	}

	if *editID != 0 {
		if err := a.flow.BeginEdit(ctx, *editID); err != nil {
			return err
		}
	}

	if *room != "" {
		if err := a.flow.SetRoom(ctx, *room); err != nil {
			return err
		}
	}
	if *start != "" || *end != "" {
		startAt, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			return fmt.Errorf("bad -start: %w", err)
		}
		endAt, err := time.Parse(time.RFC3339, *end)
		if err != nil {
			return fmt.Errorf("bad -end: %w", err)
		}
		if err := a.flow.SetTimes(ctx, startAt, endAt); err != nil {
			return err
		}
	}
	if *purpose != "" {
		if err := a.flow.SetPurpose(ctx, *purpose); err != nil {
			return err
		}
	}

	if err := a.flow.Submit(ctx); err != nil {
		if msg := validation.Message(err, a.locale); msg != "" {
			return errors.New(msg)
		}
		return err
	}

	draft := a.flow.Draft()
	fmt.Println("About to submit:")
	printDraft(draft)
	if !a.confirmPrompt("Proceed?") {
		if err := a.flow.CancelConfirm(ctx); err != nil {
			return err
		}
		fmt.Println("Kept as draft.")
		return nil
	}

	res, err := a.flow.Confirm(ctx)
	if err != nil {
		return err
	}
	if res.Created {
		fmt.Printf("Request #%d created.\n", res.Loan.ID)
	} else {
		fmt.Printf("Request #%d updated.\n", res.Loan.ID)
	}
	return nil
}

func (a *app) cmdModerate(ctx context.Context, command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	id := fs.Int64("id", 0, "request id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return errors.New("-id is required")
	}
	if !a.cfg.IsAdmin(a.identity) {
		return fmt.Errorf("%s is not an admin", a.identity)
	}

	if err := a.store.Refresh(ctx); err != nil {
		return err
	}

	confirm := func(loan models.Loan) bool {
		fmt.Println("About to delete:")
		printLoan(loan)
		return a.confirmPrompt("Delete permanently?")
	}
	admin := moderation.NewAdminController(a.identity, a.client, a.store, confirm, &a.logger)

	switch command {
	case "approve":
		loan, err := admin.Approve(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("Request #%d approved.\n", loan.ID)
	case "reject":
		loan, err := admin.Reject(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("Request #%d rejected.\n", loan.ID)
	case "delete":
		if err := admin.Delete(ctx, *id); err != nil {
			if errors.Is(err, moderation.ErrDeleteAborted) {
				fmt.Println("Aborted.")
				return nil
			}
			return err
		}
		fmt.Printf("Request #%d deleted.\n", *id)
	}
	return nil
}

func (a *app) cmdExport(ctx context.Context) error {
	if err := a.store.Refresh(ctx); err != nil {
		return err
	}

	dir := a.cfg.Exports.Path
	if dir == "" {
		dir = "exports"
	}
	path, err := export.NewExporter(dir, &a.logger).LoanLedger(a.store.Loans(), time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Ledger written to %s\n", path)
	return nil
}

func (a *app) confirmPrompt(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	line, err := a.stdin.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func intersect(a, b []models.Loan) []models.Loan {
	ids := make(map[int64]bool, len(b))
	for _, loan := range b {
		ids[loan.ID] = true
	}
	var out []models.Loan
	for _, loan := range a {
		if ids[loan.ID] {
			out = append(out, loan)
		}
	}
	return out
}

func printLoan(loan models.Loan) {
	fmt.Printf("#%-4d %-10s %-45s %s - %s  %-10s %s\n",
		loan.ID,
		loan.BorrowerName,
		loan.RoomName,
		loan.StartTime.Format("2006-01-02 15:04"),
		loan.EndTime.Format("15:04"),
		loan.Status,
		loan.Purpose,
	)
}

func printDraft(draft models.Draft) {
	action := "create"
	if draft.Editing() {
		action = fmt.Sprintf("update #%d", draft.EditingID)
	}
	fmt.Printf("  action : %s\n", action)
	fmt.Printf("  room   : %s\n", draft.RoomName)
	if draft.StartTime != nil && draft.EndTime != nil {
		fmt.Printf("  time   : %s - %s\n",
			draft.StartTime.Format("2006-01-02 15:04"),
			draft.EndTime.Format("15:04"))
	}
	fmt.Printf("  purpose: %s\n", draft.Purpose)
}
