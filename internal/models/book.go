package models

// Book categories. Each category carries one extra descriptive field
// (Subject, Genre, Course or Language).
const (
	CategoryMedical     = "Medical"
	CategoryFiction     = "Fiction"
	CategoryEducational = "Educational"
	CategoryIndian      = "Indian"
)

type Book struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Category      string  `json:"category"`
	Description   string  `json:"description,omitempty"`
	CoverImageURL string  `json:"coverImageUrl,omitempty"`
	IsTrending    bool    `json:"isTrending"`
	PageCount     int     `json:"pageCount,omitempty"`
	StoryType     string  `json:"storyType,omitempty"`
	ThemeType     string  `json:"themeType,omitempty"`

	// category-specific detail columns, one per category
	Subject  string `json:"subject,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Course   string `json:"course,omitempty"`
	Language string `json:"language,omitempty"`
}

// StockStatus buckets a book's stock level for the admin stock report.
func (b Book) StockStatus() string {
	switch {
	case b.Quantity == 0:
		return "Out of Stock"
	case b.Quantity < 5:
		return "Low Stock"
	default:
		return "In Stock"
	}
}
