// services/invoice_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"invoice-dashboard/models"
	"invoice-dashboard/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoicesPath is the listing view every mutation revalidates and create/update redirect to.
const InvoicesPath = "/dashboard/invoices"

const ItemsPerPage = 6

var ErrStore = errors.New("invoice store")

// Revalidator marks a rendered view stale so its next read is recomputed.
type Revalidator interface {
	RevalidatePath(ctx context.Context, path string)
}

type StoreErrorPolicy int

const (
	// SurfaceStoreErrors re-displays the form with a database message.
	SurfaceStoreErrors StoreErrorPolicy = iota
	// SwallowStoreErrors logs the failure and continues as if the write succeeded.
	SwallowStoreErrors
)

type InvoiceService struct {
	db     *gorm.DB
	views  Revalidator
	policy StoreErrorPolicy
	now    func() time.Time
}

func NewInvoiceService(db *gorm.DB, views Revalidator, policy StoreErrorPolicy) *InvoiceService {
	return &InvoiceService{db: db, views: views, policy: policy, now: time.Now}
}

// WithClock replaces the clock used to date new invoices.
func (s *InvoiceService) WithClock(now func() time.Time) *InvoiceService {
	s.now = now
	return s
}

// CreateInvoice validates the submitted form and inserts one invoice dated today.
func (s *InvoiceService) CreateInvoice(ctx context.Context, fields utils.Fields) Outcome {
	valid, errs := utils.ValidateInvoiceForm(fields)
	if len(errs) > 0 {
		return redisplay(FormState{Errors: errs, Message: "Missing Fields. Failed to Create Invoice."})
	}

	invoice := models.Invoice{
		CustomerID: valid.CustomerID,
		Amount:     valid.AmountInCents(),
		Status:     valid.Status,
		Date:       utils.Today(s.now()),
	}
	err := s.db.WithContext(ctx).Create(&invoice).Error
	if err != nil {
		log.Printf("Failed to create invoice for customer %s: %v", valid.CustomerID, err)
	}

	s.views.RevalidatePath(ctx, InvoicesPath)

	if err != nil && s.policy == SurfaceStoreErrors {
		return redisplay(FormState{Message: "Database Error: Failed to Create Invoice."})
	}
	return redirect(InvoicesPath)
}

// UpdateInvoice rewrites customer, amount and status of invoice id. The id
// comes from the route and the date column is left alone.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, fields utils.Fields) Outcome {
	valid, errs := utils.ValidateInvoiceForm(fields)
	if len(errs) > 0 {
		return redisplay(FormState{Errors: errs, Message: "Missing Fields. Failed to Create Invoice."})
	}

	err := s.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"customer_id": valid.CustomerID,
			"amount":      valid.AmountInCents(),
			"status":      valid.Status,
		}).Error
	if err != nil {
		log.Printf("Failed to update invoice %s: %v", id, err)
	}

	s.views.RevalidatePath(ctx, InvoicesPath)

	if err != nil && s.policy == SurfaceStoreErrors {
		return redisplay(FormState{Message: "Database Error: Failed to Update Invoice."})
	}
	return redirect(InvoicesPath)
}

// DeleteInvoice removes invoice id. A missing id is not an error. The listing
// is revalidated whatever happens.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Invoice{}).Error
	if err != nil {
		log.Printf("Failed to delete invoice %s: %v", id, err)
	}

	s.views.RevalidatePath(ctx, InvoicesPath)

	if err != nil && s.policy == SurfaceStoreErrors {
		return fmt.Errorf("%w: delete invoice %s: %v", ErrStore, id, err)
	}
	return nil
}

// InvoiceRow is one line of the invoices listing.
type InvoiceRow struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Date     string `json:"date"`
	Status   string `json:"status"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl"`
}

type InvoicePage struct {
	Invoices   []InvoiceRow `json:"invoices"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
}

func (s *InvoiceService) filteredInvoices(ctx context.Context, query string) *gorm.DB {
	q := s.db.WithContext(ctx).
		Table("invoices").
		Joins("JOIN customers ON invoices.customer_id = customers.id")
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where(
			"LOWER(customers.name) LIKE ? OR LOWER(customers.email) LIKE ? OR CAST(invoices.amount AS TEXT) LIKE ? OR invoices.date LIKE ? OR LOWER(invoices.status) LIKE ?",
			like, like, like, like, like,
		)
	}
	return q
}

// ListInvoices returns one page of invoices whose customer, amount, date or
// status matches query, newest first.
func (s *InvoiceService) ListInvoices(ctx context.Context, query string, page int) (InvoicePage, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := s.filteredInvoices(ctx, query).Count(&total).Error; err != nil {
		return InvoicePage{}, fmt.Errorf("count invoices: %w", err)
	}

	rows := []InvoiceRow{}
	err := s.filteredInvoices(ctx, query).
		Select("invoices.id, invoices.amount, invoices.date, invoices.status, customers.name, customers.email, customers.image_url").
		Order("invoices.date DESC").
		Limit(ItemsPerPage).
		Offset((page - 1) * ItemsPerPage).
		Scan(&rows).Error
	if err != nil {
		return InvoicePage{}, fmt.Errorf("list invoices: %w", err)
	}

	return InvoicePage{
		Invoices:   rows,
		Page:       page,
		TotalPages: int(math.Ceil(float64(total) / ItemsPerPage)),
	}, nil
}

// InvoiceForm is an invoice as the edit form shows it, amount in major units.
type InvoiceForm struct {
	ID         uuid.UUID `json:"id"`
	CustomerID string    `json:"customerId"`
	Amount     string    `json:"amount"`
	Status     string    `json:"status"`
}

// GetInvoice loads invoice id for editing. gorm.ErrRecordNotFound is returned as is.
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (InvoiceForm, error) {
	var invoice models.Invoice
	if err := s.db.WithContext(ctx).First(&invoice, "id = ?", id).Error; err != nil {
		return InvoiceForm{}, err
	}
	return InvoiceForm{
		ID:         invoice.ID,
		CustomerID: invoice.CustomerID,
		Amount:     decimal.New(invoice.Amount, -2).String(),
		Status:     invoice.Status,
	}, nil
}

type CustomerOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *InvoiceService) ListCustomers(ctx context.Context) ([]CustomerOption, error) {
	customers := []CustomerOption{}
	err := s.db.WithContext(ctx).
		Model(&models.Customer{}).
		Select("id, name").
		Order("name ASC").
		Scan(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

type CardData struct {
	NumberOfInvoices  int64 `json:"numberOfInvoices"`
	NumberOfCustomers int64 `json:"numberOfCustomers"`
	TotalPaid         int64 `json:"totalPaidInvoices"`
	TotalPending      int64 `json:"totalPendingInvoices"`
}

// CardData summarises invoices and customers for the dashboard overview.
func (s *InvoiceService) CardData(ctx context.Context) (CardData, error) {
	var data CardData
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Invoice{}).Count(&data.NumberOfInvoices).Error; err != nil {
		return CardData{}, fmt.Errorf("count invoices: %w", err)
	}
	if err := db.Model(&models.Customer{}).Count(&data.NumberOfCustomers).Error; err != nil {
		return CardData{}, fmt.Errorf("count customers: %w", err)
	}

	var totals struct {
		Paid    int64
		Pending int64
	}
	err := db.Model(&models.Invoice{}).
		Select("COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS paid, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS pending",
			models.StatusPaid, models.StatusPending).
		Scan(&totals).Error
	if err != nil {
		return CardData{}, fmt.Errorf("sum invoices: %w", err)
	}
	data.TotalPaid = totals.Paid
	data.TotalPending = totals.Pending
	return data, nil
}
