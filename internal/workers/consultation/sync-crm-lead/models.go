// internal/workers/consultation/sync-crm-lead/models.go
package synccrmlead

type Input struct {
	ConsultationID string `json:"consultationId"`
}

type Output struct {
	CRMSynced   bool   `json:"crmSynced"`
	CRMProvider string `json:"crmProvider,omitempty"`
	CRMLeadID   string `json:"crmLeadId,omitempty"`
	CRMCreated  bool   `json:"crmCreated"`
	CRMMessage  string `json:"crmMessage"`
}
