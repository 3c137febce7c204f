package catalog

import "ruangkampus/internal/models"

// DefaultRooms is the campus room inventory used when the configuration
// does not supply its own catalog.
func DefaultRooms() []models.Room {
	return []models.Room{
		{ID: "amphitheater-open", NameID: "Amphitheater Terbuka", NameEN: "Open Amphitheater", SortOrder: 10},
		{ID: "auditorium-main", NameID: "Auditorium Utama (Kapasitas 500)", NameEN: "Main Auditorium (Capacity 500)", SortOrder: 20},
		{ID: "hall-postgraduate", NameID: "Aula Pascasarjana (Theater Room)", NameEN: "Postgraduate Hall (Theater Room)", SortOrder: 30},
		{ID: "workshop-mechanical", NameID: "Bengkel Mekanik & CNC", NameEN: "Mechanical & CNC Workshop", SortOrder: 40},
		{ID: "coworking-library", NameID: "Coworking Space Perpustakaan", NameEN: "Library Coworking Space", SortOrder: 50},
		{ID: "sports-hall-indoor", NameID: "Gelanggang Olahraga (GOR) Indoor", NameEN: "Indoor Sports Hall", SortOrder: 60},
		{ID: "gkb-a-101", NameID: "Ruang Kelas GKB-A 101 (Lantai 1)", NameEN: "GKB-A Classroom 101 (1st Floor)", SortOrder: 70},
		{ID: "gkb-a-102", NameID: "Ruang Kelas GKB-A 102 (Lantai 1)", NameEN: "GKB-A Classroom 102 (1st Floor)", SortOrder: 80},
		{ID: "gkb-a-103", NameID: "Ruang Kelas GKB-A 103 (Lantai 1)", NameEN: "GKB-A Classroom 103 (1st Floor)", SortOrder: 90},
		{ID: "gkb-a-201", NameID: "Ruang Kelas GKB-A 201 (Lantai 2)", NameEN: "GKB-A Classroom 201 (2nd Floor)", SortOrder: 100},
		{ID: "gkb-a-202", NameID: "Ruang Kelas GKB-A 202 (Lantai 2)", NameEN: "GKB-A Classroom 202 (2nd Floor)", SortOrder: 110},
		{ID: "gkb-a-203", NameID: "Ruang Kelas GKB-A 203 (Lantai 2)", NameEN: "GKB-A Classroom 203 (2nd Floor)", SortOrder: 120},
		{ID: "gkb-b-301", NameID: "Ruang Kelas GKB-B 301 (Lantai 3)", NameEN: "GKB-B Classroom 301 (3rd Floor)", SortOrder: 130},
		{ID: "gkb-b-302", NameID: "Ruang Kelas GKB-B 302 (Lantai 3)", NameEN: "GKB-B Classroom 302 (3rd Floor)", SortOrder: 140},
		{ID: "gkb-b-304", NameID: "Ruang Kelas GKB-B 304 (Lantai 3)", NameEN: "GKB-B Classroom 304 (3rd Floor)", SortOrder: 150},
		{ID: "lab-database", NameID: "Laboratorium Basis Data & Big Data", NameEN: "Database & Big Data Laboratory", SortOrder: 160},
		{ID: "lab-electronics", NameID: "Laboratorium Elektronika Dasar", NameEN: "Basic Electronics Laboratory", SortOrder: 170},
		{ID: "lab-network", NameID: "Laboratorium Jaringan Komputer (Jarkom)", NameEN: "Computer Network Laboratory (Jarkom)", SortOrder: 180},
		{ID: "lab-cybersecurity", NameID: "Laboratorium Keamanan Siber (Cyber Security)", NameEN: "Cyber Security Laboratory", SortOrder: 190},
		{ID: "lab-multimedia", NameID: "Laboratorium Multimedia & Game Dev", NameEN: "Multimedia & Game Dev Laboratory", SortOrder: 200},
		{ID: "lab-programming", NameID: "Laboratorium Pemrograman Dasar (Labdas)", NameEN: "Basic Programming Laboratory (Labdas)", SortOrder: 210},
		{ID: "lab-software", NameID: "Laboratorium Rekayasa Perangkat Lunak (RPL)", NameEN: "Software Engineering Laboratory (RPL)", SortOrder: 220},
		{ID: "lab-robotics", NameID: "Laboratorium Robotika & Otomasi", NameEN: "Robotics & Automation Laboratory", SortOrder: 230},
		{ID: "lab-ai", NameID: "Laboratorium Sistem Cerdas & AI", NameEN: "Intelligent Systems & AI Laboratory", SortOrder: 240},
		{ID: "lab-gis", NameID: "Laboratorium Sistem Informasi Geografis (GIS)", NameEN: "Geographic Information System (GIS) Laboratory", SortOrder: 250},
		{ID: "lab-embedded", NameID: "Laboratorium Sistem Tertanam (Embedded System)", NameEN: "Embedded System Laboratory", SortOrder: 260},
		{ID: "lab-wireless", NameID: "Laboratorium Telekomunikasi Nirkabel", NameEN: "Wireless Telecommunication Laboratory", SortOrder: 270},
		{ID: "theory-d3-205", NameID: "Ruang Teori D3-205", NameEN: "Theory Room D3-205", SortOrder: 280},
		{ID: "theory-d4-101", NameID: "Ruang Teori D4-101", NameEN: "Theory Room D4-101", SortOrder: 290},
		{ID: "theory-d4-102", NameID: "Ruang Teori D4-102", NameEN: "Theory Room D4-102", SortOrder: 300},
		{ID: "seminar-a", NameID: "Ruang Seminar A", NameEN: "Seminar Room A", SortOrder: 310},
		{ID: "seminar-b", NameID: "Ruang Seminar B", NameEN: "Seminar Room B", SortOrder: 320},
		{ID: "defense-room-dept", NameID: "Ruang Sidang Tugas Akhir (Jurusan)", NameEN: "Final Project Defense Room (Department)", SortOrder: 330},
		{ID: "meeting-room-rectorate", NameID: "Ruang Sidang Utama (Rektorat)", NameEN: "Main Meeting Room (Rectorate)", SortOrder: 340},
		{ID: "secretariat-bem", NameID: "Sekretariat BEM/DPM", NameEN: "BEM/DPM Secretariat", SortOrder: 350},
		{ID: "studio-music", NameID: "Studio Musik & Broadcasting", NameEN: "Music & Broadcasting Studio", SortOrder: 360},
	}
}

// Default builds a catalog from the built-in room inventory.
func Default() *Catalog {
	return New(DefaultRooms())
}
