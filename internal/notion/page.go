package notion

import (
	"strconv"
	"strings"
	"time"
)

// Page is a database row.
type Page struct {
	ID             string                   `json:"id"`
	CreatedTime    time.Time                `json:"created_time"`
	LastEditedTime time.Time                `json:"last_edited_time"`
	Archived       bool                     `json:"archived"`
	Properties     map[string]PropertyValue `json:"properties"`
}

// PropertyValue is a typed property value as returned by the API. Only the
// field matching Type is populated.
type PropertyValue struct {
	Type        string        `json:"type"`
	Title       []RichText    `json:"title,omitempty"`
	RichText    []RichText    `json:"rich_text,omitempty"`
	Select      *SelectValue  `json:"select,omitempty"`
	MultiSelect []SelectValue `json:"multi_select,omitempty"`
	Status      *SelectValue  `json:"status,omitempty"`
	Number      *float64      `json:"number,omitempty"`
	Date        *DateValue    `json:"date,omitempty"`
	Relation    []Reference   `json:"relation,omitempty"`
	PhoneNumber string        `json:"phone_number,omitempty"`
	Checkbox    bool          `json:"checkbox,omitempty"`
	Formula     *Formula      `json:"formula,omitempty"`
	Rollup      *Rollup       `json:"rollup,omitempty"`
	Files       []File        `json:"files,omitempty"`
}

type RichText struct {
	Type      string       `json:"type,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
}

type TextContent struct {
	Content string `json:"content"`
}

type SelectValue struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

type Reference struct {
	ID string `json:"id"`
}

type Formula struct {
	Type    string   `json:"type"`
	String  string   `json:"string,omitempty"`
	Number  *float64 `json:"number,omitempty"`
	Boolean bool     `json:"boolean,omitempty"`
}

type Rollup struct {
	Type  string          `json:"type"`
	Array []PropertyValue `json:"array,omitempty"`
}

type File struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	External *FileURL `json:"external,omitempty"`
	File     *FileURL `json:"file,omitempty"`
}

type FileURL struct {
	URL string `json:"url"`
}

func joinPlain(parts []RichText) string {
	var b strings.Builder
	for _, p := range parts {
		if p.PlainText != "" {
			b.WriteString(p.PlainText)
		} else if p.Text != nil {
			b.WriteString(p.Text.Content)
		}
	}
	return b.String()
}

func (p *Page) prop(name string) (PropertyValue, bool) {
	if p == nil || p.Properties == nil {
		return PropertyValue{}, false
	}
	v, ok := p.Properties[name]
	return v, ok
}

// Text returns a title or rich_text property as plain text.
func (p *Page) Text(name string) string {
	v, ok := p.prop(name)
	if !ok {
		return ""
	}
	return v.text()
}

func (v PropertyValue) text() string {
	if len(v.Title) > 0 {
		return joinPlain(v.Title)
	}
	return joinPlain(v.RichText)
}

// SelectName returns the option of a select or status property, falling back
// to the first option of a multi_select.
func (p *Page) SelectName(name string) string {
	v, ok := p.prop(name)
	if !ok {
		return ""
	}
	switch {
	case v.Select != nil:
		return v.Select.Name
	case v.Status != nil:
		return v.Status.Name
	case len(v.MultiSelect) > 0:
		return v.MultiSelect[0].Name
	}
	return ""
}

// MultiSelectNames returns every option of a multi_select property.
func (p *Page) MultiSelectNames(name string) []string {
	v, ok := p.prop(name)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(v.MultiSelect))
	for _, o := range v.MultiSelect {
		names = append(names, o.Name)
	}
	return names
}

// Number returns a number property and whether it was set.
func (p *Page) Number(name string) (float64, bool) {
	v, ok := p.prop(name)
	if !ok || v.Number == nil {
		return 0, false
	}
	return *v.Number, true
}

// DateStart returns the start of a date property ("" when empty).
func (p *Page) DateStart(name string) string {
	v, ok := p.prop(name)
	if !ok || v.Date == nil {
		return ""
	}
	return v.Date.Start
}

// RelationIDs returns the related page ids.
func (p *Page) RelationIDs(name string) []string {
	v, ok := p.prop(name)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(v.Relation))
	for _, r := range v.Relation {
		ids = append(ids, r.ID)
	}
	return ids
}

// FirstRelation returns the first related page id or "".
func (p *Page) FirstRelation(name string) string {
	if ids := p.RelationIDs(name); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

func (p *Page) Phone(name string) string {
	v, _ := p.prop(name)
	return v.PhoneNumber
}

func (p *Page) Checkbox(name string) bool {
	v, _ := p.prop(name)
	return v.Checkbox
}

// FileURL returns the URL of the first file of a files property.
func (p *Page) FileURL(name string) string {
	v, ok := p.prop(name)
	if !ok || len(v.Files) == 0 {
		return ""
	}
	f := v.Files[0]
	switch {
	case f.External != nil:
		return f.External.URL
	case f.File != nil:
		return f.File.URL
	}
	return ""
}

// FlexibleText reads a property whose type varies between databases: select,
// multi_select, title, rich_text, number, formula or a rollup of those.
func (p *Page) FlexibleText(name string) string {
	v, ok := p.prop(name)
	if !ok {
		return ""
	}
	return v.flexible()
}

func (v PropertyValue) flexible() string {
	switch v.Type {
	case "select", "status":
		if v.Select != nil {
			return v.Select.Name
		}
		if v.Status != nil {
			return v.Status.Name
		}
	case "multi_select":
		if len(v.MultiSelect) > 0 {
			return v.MultiSelect[0].Name
		}
	case "title", "rich_text":
		return v.text()
	case "number":
		if v.Number != nil {
			return strconv.FormatFloat(*v.Number, 'f', -1, 64)
		}
	case "formula":
		if v.Formula != nil {
			if v.Formula.String != "" {
				return v.Formula.String
			}
			if v.Formula.Number != nil {
				return strconv.FormatFloat(*v.Formula.Number, 'f', -1, 64)
			}
		}
	case "rollup":
		if v.Rollup != nil && len(v.Rollup.Array) > 0 {
			return v.Rollup.Array[0].flexible()
		}
	}
	return ""
}
