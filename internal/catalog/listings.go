package catalog

// Listing is a described entry served by the read-only bootcamp API
type Listing struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Bootcamps returns the fixed bootcamp listing
func Bootcamps() []Listing {
	return []Listing{
		{ID: 1, Name: "Devworks Bootcamp", Description: "Awesome bootcamp"},
		{ID: 2, Name: "ModernTech Bootcamp", Description: "Awesome bootcamp"},
		{ID: 3, Name: "Web Development Bootcamp", Description: "Awesome bootcamp"},
	}
}

// Languages returns the fixed language listing
func Languages() []Listing {
	return []Listing{
		{ID: 1, Name: "Javascript", Description: "Awesome language"},
		{ID: 2, Name: "Python", Description: "Awesome language"},
		{ID: 3, Name: "Java", Description: "Awesome language"},
	}
}
