package services

import (
	"log"

	"bmc-rentportal/internal/core/domain"
)

// NotificationService delivers tenant-facing notifications. Delivery is
// fire-and-forget; a failed notification never fails the triggering flow.
// The email channel is currently a log sink pending SMTP credentials from
// the municipal IT cell.
type NotificationService struct{}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyMandateRegistered sends the mandate confirmation to the tenant
func (s *NotificationService) NotifyMandateRegistered(email string, record *domain.MandateRecord) {
	if email == "" || record == nil {
		return
	}
	go func() {
		log.Printf("📧 [notify] mandate confirmation to %s: UMRN %s, %s via %s, ₹%.2f",
			email, record.MandateID, record.Frequency, record.BankName, record.Amount)
	}()
}
