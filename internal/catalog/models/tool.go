package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArray is a string slice stored as jsonb.
type StringArray []string

func (s *StringArray) Scan(value any) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported StringArray source %T", value)
	}
}

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// JSONMap is a flat string map stored as jsonb.
type JSONMap map[string]string

func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONMap source %T", value)
	}
	// Non-string values (e.g. nested objects) are skipped.
	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return err
	}
	out := make(JSONMap, len(loose))
	for k, v := range loose {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	*m = out
	return nil
}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// RawJSON is an opaque jsonb document.
type RawJSON []byte

func (r *RawJSON) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*r = nil
	case []byte:
		*r = append((*r)[:0], v...)
	case string:
		*r = RawJSON(v)
	default:
		return fmt.Errorf("unsupported RawJSON source %T", value)
	}
	return nil
}

func (r RawJSON) Value() (driver.Value, error) {
	if len(r) == 0 {
		return nil, nil
	}
	if !json.Valid(r) {
		return nil, fmt.Errorf("invalid json document")
	}
	return string(r), nil
}

// AITool is the GORM model for the ai_tools table.
type AITool struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	Name          string          `gorm:"size:255;not null;index"`
	Description   string          `gorm:"type:text"`
	DescriptionEN *string         `gorm:"column:description_en;type:text"`
	Type          string          `gorm:"size:100"`
	InputFormat   string          `gorm:"size:255"`
	OutputFormat  string          `gorm:"size:255"`
	AccessType    string          `gorm:"size:100"`
	Pricing       string          `gorm:"size:255"`
	Limitations   string          `gorm:"type:text"`
	License       string          `gorm:"size:100"`
	Examples      RawJSON         `gorm:"type:jsonb"`
	Links         JSONMap         `gorm:"type:jsonb;not null;default:'{}'"`
	Tags          StringArray     `gorm:"type:jsonb;not null;default:'[]';index:idx_ai_tools_tags,type:gin"`
	Rating        *float64
	IconURL       *string `gorm:"column:icon_url;size:512"`
}

// TableName specifies the table name
func (AITool) TableName() string {
	return "ai_tools"
}

// ToolTranslation holds a localized value of one AITool field.
type ToolTranslation struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	ToolID   int64  `gorm:"not null;uniqueIndex:uix_tool_lang_field"`
	Language string `gorm:"size:10;not null;index;uniqueIndex:uix_tool_lang_field"`
	Field    string `gorm:"size:50;not null;uniqueIndex:uix_tool_lang_field"`
	Value    string `gorm:"type:text;not null"`

	Tool AITool `gorm:"foreignKey:ToolID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (ToolTranslation) TableName() string {
	return "tool_translations"
}

// All returns the models to migrate.
func All() []any {
	return []any{&AITool{}, &ToolTranslation{}}
}
