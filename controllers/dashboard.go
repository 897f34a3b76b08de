package controllers

import (
	"net/http"

	"invoice-dashboard/services"
	"invoice-dashboard/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DashboardController struct {
	Invoices *services.InvoiceService
}

type DashboardOverview struct {
	NumberOfInvoices     int64  `json:"numberOfInvoices"`
	NumberOfCustomers    int64  `json:"numberOfCustomers"`
	TotalPaidInvoices    string `json:"totalPaidInvoices"`
	TotalPendingInvoices string `json:"totalPendingInvoices"`
}

func formatCurrency(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}

func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	cards, err := dc.Invoices.CardData(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch card data")
		return
	}

	c.JSON(http.StatusOK, DashboardOverview{
		NumberOfInvoices:     cards.NumberOfInvoices,
		NumberOfCustomers:    cards.NumberOfCustomers,
		TotalPaidInvoices:    formatCurrency(cards.TotalPaid),
		TotalPendingInvoices: formatCurrency(cards.TotalPending),
	})
}
