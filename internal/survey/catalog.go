package survey

import "context"

type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	// Type is "rating" (1-100) or "text".
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type Survey struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// Catalog lists the surveys departments can answer.
type Catalog interface {
	List(ctx context.Context) ([]Survey, error)
	Get(ctx context.Context, id int64) (*Survey, error)
}

// FixtureCatalog serves a fixed set of surveys. Survey authoring is not
// backed by storage yet.
type FixtureCatalog struct {
	surveys []Survey
}

func NewFixtureCatalog() *FixtureCatalog {
	return &FixtureCatalog{surveys: defaultSurveys()}
}

func (c *FixtureCatalog) List(context.Context) ([]Survey, error) {
	out := make([]Survey, len(c.surveys))
	copy(out, c.surveys)
	return out, nil
}

// Get returns nil, nil for an unknown id.
func (c *FixtureCatalog) Get(_ context.Context, id int64) (*Survey, error) {
	for i := range c.surveys {
		if c.surveys[i].ID == id {
			s := c.surveys[i]
			return &s, nil
		}
	}
	return nil, nil
}

func defaultSurveys() []Survey {
	return []Survey{
		{
			ID:          1,
			Title:       "Internal Customer Satisfaction",
			Description: "Rate the service you received from another department this period.",
			Questions: []Question{
				{ID: "overallCustomerRating", Text: "Overall, how satisfied are you with this department?", Type: "rating", Required: true},
				{ID: "suggestions", Text: "What could this department do better?", Type: "text"},
			},
		},
		{
			ID:          2,
			Title:       "Cross-Department Collaboration",
			Description: "How well did this department work with yours on shared projects?",
			Questions: []Question{
				{ID: "overallCustomerRating", Text: "How would you rate collaboration with this department?", Type: "rating", Required: true},
				{ID: "suggestions", Text: "Any examples or suggestions?", Type: "text"},
			},
		},
	}
}
