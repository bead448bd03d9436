package notion

// QueryRequest is the body of POST /databases/{id}/query.
type QueryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	Sorts       []Sort  `json:"sorts,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

// QueryResult is one page of query results.
type QueryResult struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// Filter is a database filter: either one property condition or a compound.
type Filter struct {
	Property    string             `json:"property,omitempty"`
	RichText    *TextCondition     `json:"rich_text,omitempty"`
	Select      *SelectCondition   `json:"select,omitempty"`
	MultiSelect *ContainsCondition `json:"multi_select,omitempty"`
	Relation    *ContainsCondition `json:"relation,omitempty"`
	Date        *DateCondition     `json:"date,omitempty"`

	And []Filter `json:"and,omitempty"`
	Or  []Filter `json:"or,omitempty"`
}

type TextCondition struct {
	Equals   string `json:"equals,omitempty"`
	Contains string `json:"contains,omitempty"`
}

type SelectCondition struct {
	Equals string `json:"equals"`
}

type ContainsCondition struct {
	Contains string `json:"contains"`
}

type DateCondition struct {
	IsEmpty bool `json:"is_empty,omitempty"`
}

// Sort orders query results by a property or a page timestamp.
type Sort struct {
	Property  string `json:"property,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Direction string `json:"direction"`
}

const (
	Ascending  = "ascending"
	Descending = "descending"
)

func TextEquals(property, value string) Filter {
	return Filter{Property: property, RichText: &TextCondition{Equals: value}}
}

func SelectEquals(property, value string) Filter {
	return Filter{Property: property, Select: &SelectCondition{Equals: value}}
}

func MultiSelectContains(property, value string) Filter {
	return Filter{Property: property, MultiSelect: &ContainsCondition{Contains: value}}
}

func RelationContains(property, pageID string) Filter {
	return Filter{Property: property, Relation: &ContainsCondition{Contains: pageID}}
}

// And combines conditions. A single condition is returned unwrapped, which
// the API requires for top-level filters with one clause.
func And(filters ...Filter) *Filter {
	if len(filters) == 1 {
		return &filters[0]
	}
	return &Filter{And: filters}
}

func Or(filters ...Filter) *Filter {
	if len(filters) == 1 {
		return &filters[0]
	}
	return &Filter{Or: filters}
}

func SortBy(property, direction string) Sort {
	return Sort{Property: property, Direction: direction}
}

func SortByCreated(direction string) Sort {
	return Sort{Timestamp: "created_time", Direction: direction}
}

// User is a Notion user; for an integration key it is the bot.
type User struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// Database is the subset of a database object the app inspects.
type Database struct {
	ID         string                    `json:"id"`
	Title      []RichText                `json:"title"`
	Properties map[string]SchemaProperty `json:"properties"`
}

// Name returns the database title as plain text.
func (d *Database) Name() string {
	return joinPlain(d.Title)
}

// SchemaProperty describes one column of a database.
type SchemaProperty struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}
