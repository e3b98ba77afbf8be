package entity

// ProjectInput carries every Project field except the identifier.
type ProjectInput struct {
	Slug             string            `json:"slug"`
	Title            string            `json:"title"`
	Category         string            `json:"category"`
	ShortDescription string            `json:"shortDescription"`
	Description      string            `json:"description"`
	Client           string            `json:"client"`
	Year             string            `json:"year"`
	Location         string            `json:"location"`
	Services         []string          `json:"services"`
	Image            string            `json:"image"`
	Images           []string          `json:"images"`
	Tags             []string          `json:"tags"`
	Featured         bool              `json:"featured"`
	Results          map[string]string `json:"results,omitempty"`
}

// Project is a portfolio case study.
type Project struct {
	ID string `json:"id"`
	ProjectInput
}
