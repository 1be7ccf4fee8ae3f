package domain

import "time"

type Report struct {
	Date     time.Time
	Locale   string
	Counts   []CategoryCount
	Articles []Article
}

// ReportDocument is a rendered report ready to be delivered.
type ReportDocument struct {
	Subject  string
	Body     string
	FileName string
	Content  []byte
}

type Email struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}
