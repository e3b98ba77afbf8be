package entity

// Recipient is anything the outreach dispatcher can write to. Only Email is required.
type Recipient struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Company  string `json:"company,omitempty"`
	Website  string `json:"website,omitempty"`
	Industry string `json:"industry,omitempty"`
	Location string `json:"location,omitempty"`
}

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	Body    string
}

// OutreachResult is the per-recipient outcome of a send.
type OutreachResult struct {
	Email   string `json:"email"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ChatMessage is one turn of a chatbot conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
