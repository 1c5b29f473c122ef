// Package msproject parses Microsoft Project XML exports into the domain model.
package msproject

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/starford/ganttview/internal/models"
)

// Namespace is the XML namespace MS Project writes on the root element.
const Namespace = "http://schemas.microsoft.com/project"

// DefaultProjectName is used when the root carries neither Name nor Title.
const DefaultProjectName = "Untitled Project"

// Project-level fields read from the root's direct children.
const (
	fieldName       = "Name"
	fieldTitle      = "Title"
	fieldStartDate  = "StartDate"
	fieldFinishDate = "FinishDate"
)

// Task-level fields read from each Task's direct children. Anything else is
// ignored, including nested Baseline and ExtendedAttribute blocks.
var taskFields = map[string]struct{}{
	"UID": {}, "ID": {}, "Name": {}, "Type": {}, "Start": {}, "Finish": {},
	"Duration": {}, "Manual": {}, "Summary": {}, "Milestone": {},
	"PercentComplete": {}, "OutlineNumber": {}, "OutlineLevel": {}, "Notes": {},
}

var projectFields = map[string]struct{}{
	fieldName: {}, fieldTitle: {}, fieldStartDate: {}, fieldFinishDate: {},
}

// timestamp layouts tried in order; zone-less layouts use the parser location.
var (
	localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}
	zonedLayouts = []string{time.RFC3339Nano, time.RFC3339}
)

const day = 24 * time.Hour

type parser struct {
	loc *time.Location
}

// Option configures Parse.
type Option func(*parser)

// WithLocation sets the location used for timestamps without a zone offset.
// The default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(p *parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// Parse converts an MS Project XML document into a Project.
//
// Parsing is all-or-nothing at the document level: a syntax error anywhere in
// the document, a root other than Project, or a missing Tasks container yields
// a *ParseError and a nil project. At the task level it is permissive: tasks
// without UID or Name are dropped and unparseable dates are left nil.
func Parse(data []byte, opts ...Option) (*models.Project, error) {
	p := &parser{loc: time.UTC}
	for _, opt := range opts {
		opt(p)
	}

	d := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	d.CharsetReader = charset.NewReaderLabel

	root, err := rootElement(d)
	if err != nil {
		return nil, err
	}
	if root.Name.Local != "Project" {
		return nil, &ParseError{Kind: ErrNotProject, Cause: errors.New("found <" + root.Name.Local + ">")}
	}

	fields := make(map[string]string, len(projectFields))
	var tasks []models.Task
	sawTasks := false

rootLoop:
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, malformed(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "Tasks":
				sawTasks = true
				ts, err := p.readTasks(d)
				if err != nil {
					return nil, err
				}
				tasks = append(tasks, ts...)
			case isField(projectFields, t.Name.Local):
				if err := readFirst(d, t, fields); err != nil {
					return nil, err
				}
			default:
				if err := d.Skip(); err != nil {
					return nil, malformed(err)
				}
			}
		case xml.EndElement:
			break rootLoop
		}
	}

	if err := expectEnd(d); err != nil {
		return nil, err
	}
	if !sawTasks {
		return nil, &ParseError{Kind: ErrNoTasks}
	}

	sortBySeq(tasks)

	name := fields[fieldName]
	if name == "" {
		name = fields[fieldTitle]
	}
	if name == "" {
		name = DefaultProjectName
	}

	return &models.Project{
		Name:       name,
		Title:      fields[fieldTitle],
		StartDate:  fields[fieldStartDate],
		FinishDate: fields[fieldFinishDate],
		Tasks:      nonNil(tasks),
	}, nil
}

// readTasks consumes a Tasks element and returns its well-formed tasks in
// document order.
func (p *parser) readTasks(d *xml.Decoder) ([]models.Task, error) {
	var out []models.Task
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, malformed(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "Task" {
				if err := d.Skip(); err != nil {
					return nil, malformed(err)
				}
				continue
			}
			fields, err := readTaskFields(d)
			if err != nil {
				return nil, err
			}
			if task, ok := p.buildTask(fields); ok {
				out = append(out, task)
			}
		case xml.EndElement:
			return out, nil
		}
	}
}

func readTaskFields(d *xml.Decoder) (map[string]string, error) {
	fields := make(map[string]string, len(taskFields))
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, malformed(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if isField(taskFields, t.Name.Local) {
				if err := readFirst(d, t, fields); err != nil {
					return nil, err
				}
				continue
			}
			if err := d.Skip(); err != nil {
				return nil, malformed(err)
			}
		case xml.EndElement:
			return fields, nil
		}
	}
}

// buildTask maps extracted fields onto a Task. Missing fields stay "".
func (p *parser) buildTask(f map[string]string) (models.Task, bool) {
	t := models.Task{
		UID:             f["UID"],
		ID:              f["ID"],
		Name:            f["Name"],
		Type:            f["Type"],
		Start:           f["Start"],
		Finish:          f["Finish"],
		Duration:        f["Duration"],
		Manual:          f["Manual"],
		Summary:         f["Summary"],
		Milestone:       f["Milestone"],
		PercentComplete: f["PercentComplete"],
		OutlineNumber:   f["OutlineNumber"],
		OutlineLevel:    f["OutlineLevel"],
		Notes:           f["Notes"],
	}
	if t.UID == "" || t.Name == "" {
		return models.Task{}, false
	}

	t.ParsedStart = p.parseTime(t.Start)
	t.ParsedFinish = p.parseTime(t.Finish)
	if t.ParsedStart != nil && t.ParsedFinish != nil {
		t.DurationDays = math.Abs(float64(t.ParsedFinish.Sub(*t.ParsedStart))) / float64(day)
	}
	if w, ok := ParseWork(t.Duration); ok {
		t.Work = w
	}
	return t, true
}

// parseTime returns nil for empty or unparseable timestamps.
func (p *parser) parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range zonedLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			return &v
		}
	}
	for _, layout := range localLayouts {
		if v, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return &v
		}
	}
	return nil
}

// sortBySeq orders tasks by numeric ID. Tasks with a non-numeric ID sort
// after all numeric ones and keep their document order among themselves.
func sortBySeq(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, aok := tasks[i].Seq()
		b, bok := tasks[j].Seq()
		if aok && bok {
			return a < b
		}
		return aok && !bok
	})
}

// rootElement advances to the first start element of the document.
func rootElement(d *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return xml.StartElement{}, &ParseError{Kind: ErrMalformed, Cause: errors.New("no root element")}
			}
			return xml.StartElement{}, malformed(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return xml.StartElement{}, &ParseError{Kind: ErrMalformed, Cause: errors.New("text before root element")}
			}
		}
	}
}

// expectEnd drains the decoder after the root element closes. Only
// whitespace, comments and processing instructions may follow.
func expectEnd(d *xml.Decoder) error {
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return malformed(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return &ParseError{Kind: ErrMalformed, Cause: errors.New("multiple root elements")}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return &ParseError{Kind: ErrMalformed, Cause: errors.New("text after root element")}
			}
		}
	}
}

// readFirst stores the trimmed text of start into fields unless the field was
// already seen; later duplicates are skipped.
func readFirst(d *xml.Decoder, start xml.StartElement, fields map[string]string) error {
	if _, seen := fields[start.Name.Local]; seen {
		if err := d.Skip(); err != nil {
			return malformed(err)
		}
		return nil
	}
	var text string
	if err := d.DecodeElement(&text, &start); err != nil {
		return malformed(err)
	}
	fields[start.Name.Local] = strings.TrimSpace(text)
	return nil
}

func isField(set map[string]struct{}, name string) bool {
	_, ok := set[name]
	return ok
}

func malformed(err error) error {
	pe := &ParseError{Kind: ErrMalformed, Cause: err}
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		pe.Line = syn.Line
	}
	if errors.Is(err, io.EOF) {
		pe.Cause = io.ErrUnexpectedEOF
	}
	return pe
}

func nonNil(tasks []models.Task) []models.Task {
	if tasks == nil {
		return []models.Task{}
	}
	return tasks
}
