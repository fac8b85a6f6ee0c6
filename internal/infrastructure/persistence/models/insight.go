package models

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/programmatrix/backend/internal/domain/insight"
)

var modelLogger = zap.NewNop()

// SetLogger configures the package logger used for mapping warnings
func SetLogger(l *zap.Logger) {
	if l != nil {
		modelLogger = l
	}
}

// BatchReportModel is the persistence model for queued batch reports.
// Config and Result are stored as JSON documents.
type BatchReportModel struct {
	OrgAggregateModel
	Name         string `gorm:"type:varchar(255);not null"`
	ConfigJSON   string `gorm:"column:config;type:jsonb;not null"`
	Status       string `gorm:"type:varchar(20);not null;index"`
	ResultJSON   string `gorm:"column:result;type:jsonb"`
	ErrorMessage string `gorm:"type:text"`
}

// TableName specifies the table name
func (BatchReportModel) TableName() string {
	return "batch_reports"
}

// ToDomain converts the model to a domain BatchReport
func (m *BatchReportModel) ToDomain() *insight.BatchReport {
	b := &insight.BatchReport{
		Name:         m.Name,
		Status:       insight.BatchStatus(m.Status),
		ErrorMessage: m.ErrorMessage,
	}
	m.PopulateOrgAggregateRoot(&b.OrgAggregateRoot)

	if m.ConfigJSON != "" {
		if err := json.Unmarshal([]byte(m.ConfigJSON), &b.Config); err != nil {
			modelLogger.Warn("failed to parse batch report config",
				zap.String("report_id", m.ID.String()),
				zap.Error(err))
		}
	}
	if m.ResultJSON != "" {
		var result insight.ChartData
		if err := json.Unmarshal([]byte(m.ResultJSON), &result); err != nil {
			modelLogger.Warn("failed to parse batch report result",
				zap.String("report_id", m.ID.String()),
				zap.Error(err))
		} else {
			b.Result = &result
		}
	}
	return b
}

// FromDomain populates the model from a domain BatchReport
func (m *BatchReportModel) FromDomain(b *insight.BatchReport) error {
	m.FromDomainOrgAggregateRoot(b.OrgAggregateRoot)
	m.Name = b.Name
	m.Status = string(b.Status)
	m.ErrorMessage = b.ErrorMessage

	config, err := json.Marshal(b.Config)
	if err != nil {
		return err
	}
	m.ConfigJSON = string(config)

	if b.Result != nil {
		result, err := json.Marshal(b.Result)
		if err != nil {
			return err
		}
		m.ResultJSON = string(result)
	} else {
		m.ResultJSON = ""
	}
	return nil
}
