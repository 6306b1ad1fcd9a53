package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AITemplate is a reusable prompt/template owned by a user
type AITemplate struct {
	ID              string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          string         `json:"user_id" gorm:"type:uuid;not null;index:idx_ai_templates_user_type"`
	Name            string         `json:"name" gorm:"type:varchar(255);not null"`
	TemplateType    TemplateType   `json:"template_type" gorm:"type:varchar(10);not null;index:idx_ai_templates_user_type;check:template_type IN ('email','form','subject')"`
	Industry        *string        `json:"industry,omitempty" gorm:"type:varchar(100)"`
	Tone            string         `json:"tone" gorm:"type:varchar(50);not null"`
	Language        string         `json:"language" gorm:"type:varchar(10);default:'ja'"`
	TemplateContent string         `json:"template_content" gorm:"type:text;not null"`
	Variables       datatypes.JSON `json:"variables,omitempty"`
	UsageCount      int            `json:"usage_count" gorm:"default:0"`
	IsPublic        bool           `json:"is_public" gorm:"default:false"`
	Rating          float64        `json:"rating" gorm:"type:decimal(3,2);default:0.0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Generations keep their history when the template goes away
	Generations []AIGeneration `json:"-" gorm:"foreignKey:TemplateID;constraint:OnDelete:SET NULL"`
}

// BeforeCreate hook assigns the surrogate key and defaults
func (t *AITemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.Language == "" {
		t.Language = "ja"
	}
	if len(t.Variables) == 0 {
		t.Variables = datatypes.JSON([]byte(`[]`))
	}
	return nil
}

// AIGeneration records one invocation of the generation provider: what went
// in, what came out, and what it cost.
type AIGeneration struct {
	ID               string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID           string         `json:"user_id" gorm:"type:uuid;not null;index:idx_ai_generations_user_created"`
	TemplateID       *string        `json:"template_id,omitempty" gorm:"type:uuid"`
	InputData        datatypes.JSON `json:"input_data" gorm:"not null"`
	GeneratedContent string         `json:"generated_content" gorm:"type:text;not null"`
	PromptTokens     *int           `json:"prompt_tokens,omitempty"`
	CompletionTokens *int           `json:"completion_tokens,omitempty"`
	TotalTokens      *int           `json:"total_tokens,omitempty"`
	ModelUsed        *string        `json:"model_used,omitempty" gorm:"type:varchar(50)"`
	GenerationTimeMs *int           `json:"generation_time_ms,omitempty"`
	CostUSD          *float64       `json:"cost_usd,omitempty" gorm:"type:decimal(10,6)"`
	QualityRating    *int           `json:"quality_rating,omitempty"`
	CreatedAt        time.Time      `json:"created_at" gorm:"index:idx_ai_generations_user_created"`
}

// BeforeCreate hook assigns the surrogate key
func (g *AIGeneration) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == "" {
		g.ID = newID()
	}
	return nil
}
