package controllers

import (
	"net/http"

	"invoice-dashboard/services"
	"invoice-dashboard/utils"

	"github.com/gin-gonic/gin"
)

type CustomerController struct {
	Invoices *services.InvoiceService
}

// GetCustomers lists customers for the invoice form's customer select
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	customers, err := cc.Invoices.ListCustomers(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}
