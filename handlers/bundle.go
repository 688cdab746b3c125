package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Catalog endpoints
	ListServicesHandler gin.HandlerFunc
	GetServiceHandler   gin.HandlerFunc
	ListExpertsHandler  gin.HandlerFunc
	GetExpertHandler    gin.HandlerFunc

	// Booking wizard endpoints
	OpenWizard        gin.HandlerFunc
	GetWizard         gin.HandlerFunc
	SelectWizardField gin.HandlerFunc
	NextWizardStep    gin.HandlerFunc
	PrevWizardStep    gin.HandlerFunc
	ShiftWizardMonth  gin.HandlerFunc
	SelectWizardDate  gin.HandlerFunc
	SelectWizardTime  gin.HandlerFunc
	SubmitWizard      gin.HandlerFunc
	ResetWizard       gin.HandlerFunc
	CloseWizard       gin.HandlerFunc
}

// NewHandlerBundle wires the catalog and wizard handlers into a bundle.
func NewHandlerBundle(ch *CatalogHandler, wh *BookingWizardHandler) *HandlerBundle {
	return &HandlerBundle{
		ListServicesHandler: ch.ListServices,
		GetServiceHandler:   ch.GetService,
		ListExpertsHandler:  ch.ListExperts,
		GetExpertHandler:    ch.GetExpert,

		OpenWizard:        wh.Open,
		GetWizard:         wh.View,
		SelectWizardField: wh.SelectField,
		NextWizardStep:    wh.Next,
		PrevWizardStep:    wh.Back,
		ShiftWizardMonth:  wh.ShiftMonth,
		SelectWizardDate:  wh.SelectDate,
		SelectWizardTime:  wh.SelectTime,
		SubmitWizard:      wh.Submit,
		ResetWizard:       wh.Reset,
		CloseWizard:       wh.Close,
	}
}
