package models

import (
	"github.com/programmatrix/backend/internal/domain/dashboard"
)

// WidgetModel is the persistence model for dashboard widgets
type WidgetModel struct {
	OrgAggregateModel
	Title    string `gorm:"type:varchar(255);not null"`
	Kind     string `gorm:"type:varchar(20);not null"`
	Source   string `gorm:"type:varchar(50);not null"`
	Size     string `gorm:"type:varchar(10);not null"`
	Position int    `gorm:"not null;index"`
}

// TableName specifies the table name
func (WidgetModel) TableName() string {
	return "dashboard_widgets"
}

// ToDomain converts the model to a domain Widget
func (m *WidgetModel) ToDomain() *dashboard.Widget {
	w := &dashboard.Widget{
		Title:    m.Title,
		Kind:     dashboard.WidgetKind(m.Kind),
		Source:   m.Source,
		Size:     dashboard.WidgetSize(m.Size),
		Position: m.Position,
	}
	m.PopulateOrgAggregateRoot(&w.OrgAggregateRoot)
	return w
}

// FromDomain populates the model from a domain Widget
func (m *WidgetModel) FromDomain(w *dashboard.Widget) {
	m.FromDomainOrgAggregateRoot(w.OrgAggregateRoot)
	m.Title = w.Title
	m.Kind = string(w.Kind)
	m.Source = w.Source
	m.Size = string(w.Size)
	m.Position = w.Position
}
