// controllers/invoice.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"invoice-dashboard/services"
	"invoice-dashboard/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceController struct {
	Invoices *services.InvoiceService
	Views    *services.ViewCache
}

// respondWithOutcome redirects after a successful submission, otherwise sends
// the form state back for re-display.
func respondWithOutcome(c *gin.Context, out services.Outcome) {
	if out.Redirected() {
		c.Redirect(http.StatusSeeOther, out.RedirectTo)
		return
	}
	status := http.StatusUnprocessableEntity
	if len(out.State.Errors) == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, out.State)
}

const maxFormMemory = 32 << 20

// parseForm fills PostForm from either a url-encoded or a multipart body.
func parseForm(c *gin.Context) bool {
	err := c.Request.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = c.Request.ParseForm()
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid form: "+err.Error())
		return false
	}
	return true
}

// invoiceID reads the :id route parameter. Unknown shapes are treated as a
// missing invoice.
func invoiceID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		return uuid.Nil, false
	}
	return id, true
}

// CreateInvoice handles the create form
func (ic *InvoiceController) CreateInvoice(c *gin.Context) {
	if !parseForm(c) {
		return
	}
	respondWithOutcome(c, ic.Invoices.CreateInvoice(c.Request.Context(), c.Request.PostForm))
}

// UpdateInvoice handles the edit form for the invoice in the route
func (ic *InvoiceController) UpdateInvoice(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}
	if !parseForm(c) {
		return
	}
	respondWithOutcome(c, ic.Invoices.UpdateInvoice(c.Request.Context(), id, c.Request.PostForm))
}

// DeleteInvoice removes the invoice in the route and stays on the current view
func (ic *InvoiceController) DeleteInvoice(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}
	if err := ic.Invoices.DeleteInvoice(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, services.FormState{Message: "Database Error: Failed to Delete Invoice."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted Invoice."})
}

// GetInvoices serves the filtered listing through the view cache
func (ic *InvoiceController) GetInvoices(c *gin.Context) {
	query := c.Query("query")
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	ctx := c.Request.Context()
	variant := c.Request.URL.RawQuery
	body, err := ic.Views.Render(ctx, services.InvoicesPath, variant, func(ctx context.Context) ([]byte, error) {
		result, err := ic.Invoices.ListInvoices(ctx, query, page)
		if err != nil {
			return nil, err
		}
		return json.Marshal(result)
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// GetInvoice returns the invoice shown by the edit form
func (ic *InvoiceController) GetInvoice(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	invoice, err := ic.Invoices.GetInvoice(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}
