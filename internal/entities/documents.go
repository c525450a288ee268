package entities

import (
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectType string

const (
	ProjectTypeSequenceLabeling   ProjectType = "sequence_labeling"
	ProjectTypeDocumentClassifier ProjectType = "document_classification"
	ProjectTypeSeq2Seq            ProjectType = "seq2seq"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:100" json:"username"`
	TokenHash string    `gorm:"index;size:64" json:"-"` // SHA-256 of the API token
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Project struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"size:100" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	ProjectType ProjectType `gorm:"size:30;default:'sequence_labeling'" json:"project_type"`
	Labels      []Label     `gorm:"foreignKey:ProjectID" json:"labels,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type Label struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProjectID       uint      `gorm:"uniqueIndex:idx_label_project_text" json:"project_id"`
	Text            string    `gorm:"uniqueIndex:idx_label_project_text;size:100" json:"text"`
	ShortcutKey     string    `gorm:"size:15" json:"shortcut_key,omitempty"`
	BackgroundColor string    `gorm:"size:7;default:'#209cee'" json:"background_color"`
	TextColor       string    `gorm:"size:7;default:'#ffffff'" json:"text_color"`
	Project         Project   `gorm:"foreignKey:ProjectID" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

// Document is one unit of annotatable text. Metadata holds every side field
// of the imported row as a JSON object.
type Document struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	ProjectID   uint                 `gorm:"index" json:"project_id"`
	Text        string               `gorm:"type:text" json:"text"`
	Metadata    datatypes.JSON       `json:"metadata"`
	Project     Project              `gorm:"foreignKey:ProjectID" json:"-"`
	Annotations []SequenceAnnotation `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"annotations,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type SequenceAnnotation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DocumentID  uint      `gorm:"index" json:"document_id"`
	LabelID     uint      `gorm:"index" json:"label_id"`
	UserID      uint      `gorm:"index" json:"user_id"`
	StartOffset int       `json:"start_offset"`
	EndOffset   int       `json:"end_offset"`
	Probability float64   `gorm:"default:0" json:"prob"`
	Manual      bool      `gorm:"default:false" json:"manual"`
	Document    Document  `gorm:"foreignKey:DocumentID" json:"-"`
	Label       Label     `gorm:"foreignKey:LabelID" json:"-"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (Project) TableName() string {
	return "projects"
}

func (Label) TableName() string {
	return "labels"
}

func (Document) TableName() string {
	return "documents"
}

func (SequenceAnnotation) TableName() string {
	return "sequence_annotations"
}

// BeforeCreate keeps the metadata column a valid JSON object.
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if len(d.Metadata) == 0 {
		d.Metadata = datatypes.JSON("{}")
	}
	return nil
}

// CSVHeader is the column layout of Document.CSVRows.
var CSVHeader = []string{"id", "text", "start_offset", "end_offset", "label", "user", "metadata"}

// CSVRows flattens the document into CSV rows: one row per annotation, or a
// single row with empty annotation cells when the document has none.
// Annotations must be preloaded with their Label and User.
func (d *Document) CSVRows() [][]string {
	id := strconv.FormatUint(uint64(d.ID), 10)
	meta := d.metadataString()

	if len(d.Annotations) == 0 {
		return [][]string{{id, d.Text, "", "", "", "", meta}}
	}

	rows := make([][]string, 0, len(d.Annotations))
	for _, a := range d.Annotations {
		rows = append(rows, []string{
			id,
			d.Text,
			strconv.Itoa(a.StartOffset),
			strconv.Itoa(a.EndOffset),
			a.Label.Text,
			a.User.Username,
			meta,
		})
	}
	return rows
}

// DocumentJSON is the JSON-lines export shape. Entities use the same
// [start, end, label] triples the JSON importer reads back.
type DocumentJSON struct {
	ID       uint           `json:"id"`
	Text     string         `json:"text"`
	Entities [][]any        `json:"entities"`
	Meta     datatypes.JSON `json:"meta"`
}

// JSONRecord returns the document's JSON-lines representation.
// Annotations must be preloaded with their Label.
func (d *Document) JSONRecord() DocumentJSON {
	spans := make([][]any, 0, len(d.Annotations))
	for _, a := range d.Annotations {
		spans = append(spans, []any{a.StartOffset, a.EndOffset, a.Label.Text})
	}
	return DocumentJSON{
		ID:       d.ID,
		Text:     d.Text,
		Entities: spans,
		Meta:     datatypes.JSON(d.metadataString()),
	}
}

func (d *Document) metadataString() string {
	if len(d.Metadata) == 0 {
		return "{}"
	}
	return string(d.Metadata)
}
