package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restobill-api/internal/domain/billing"
	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/enum"
	"github.com/sangkips/restobill-api/internal/domain/repository"
	"github.com/sangkips/restobill-api/pkg/apperror"
	"github.com/sangkips/restobill-api/pkg/billdate"
	"github.com/sangkips/restobill-api/pkg/logger"
)

const maxSaveAttempts = 3

// BillNotifier is told about every bill once it is stored
type BillNotifier interface {
	BillCreated(bill *entity.Bill)
}

// BillingService turns a cart into a stored bill
type BillingService struct {
	txManager    repository.TxManager
	billRepo     repository.BillRepository
	menuRepo     repository.MenuRepository
	settingsRepo repository.SettingsRepository
	userRepo     repository.UserRepository
	sequencer    *billing.Sequencer
	carts        *CartService
	printer      *PrinterService
	notifier     BillNotifier
	dates        *billdate.Parser
	log          *logger.Logger
}

// NewBillingService creates a new billing service. notifier may be nil.
func NewBillingService(
	txManager repository.TxManager,
	billRepo repository.BillRepository,
	menuRepo repository.MenuRepository,
	settingsRepo repository.SettingsRepository,
	userRepo repository.UserRepository,
	sequencer *billing.Sequencer,
	carts *CartService,
	printer *PrinterService,
	notifier BillNotifier,
	dates *billdate.Parser,
	log *logger.Logger,
) *BillingService {
	return &BillingService{
		txManager:    txManager,
		billRepo:     billRepo,
		menuRepo:     menuRepo,
		settingsRepo: settingsRepo,
		userRepo:     userRepo,
		sequencer:    sequencer,
		carts:        carts,
		printer:      printer,
		notifier:     notifier,
		dates:        dates,
		log:          log.WithComponent("billing"),
	}
}

// LineInput is a menu item and quantity sent with the save request
type LineInput struct {
	MenuItemID string
	Quantity   int
}

// SaveBillInput represents the input for saving a bill. When Lines is empty
// the user's server side cart is billed and cleared afterwards.
type SaveBillInput struct {
	UserID        uuid.UUID
	Lines         []LineInput
	BillNumber    string
	BillDate      string
	PaymentMethod enum.PaymentMethod
	OrderType     enum.OrderType
	CustomerName  string
	CustomerPhone string
	Print         bool
}

// SaveBillOutput represents the result of saving a bill
type SaveBillOutput struct {
	Bill           *entity.Bill
	Receipt        *entity.Receipt
	PrintWarning   string
	NextBillNumber string
}

// SaveBill validates the order, stores the bill and commits its number in
// one transaction, then notifies listeners, prints if asked and resets the
// cart. Nothing is written when validation fails.
func (s *BillingService) SaveBill(ctx context.Context, input *SaveBillInput) (*SaveBillOutput, error) {
	fromCart := len(input.Lines) == 0

	items, err := s.resolveItems(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperror.ErrEmptyCart
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, apperror.ErrMissingSettings
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, apperror.ErrMissingUser
	}

	number, err := s.billNumber(ctx, input.BillNumber)
	if err != nil {
		return nil, err
	}

	stamp, err := s.stamp(input.BillDate)
	if err != nil {
		return nil, err
	}

	bill, err := billing.Assemble(billing.AssembleInput{
		Items:    items,
		Settings: settings,
		User:     &billing.Identity{ID: user.ID, Name: user.Name},
		Meta: billing.Metadata{
			BillNumber:    number,
			BillDate:      s.dates.Format(stamp, billdate.ModeDate, settings.Locale),
			CreatedAt:     s.dates.Format(stamp, billdate.ModeDateTime, settings.Locale),
			PaymentMethod: input.PaymentMethod,
			OrderType:     input.OrderType,
			CustomerName:  input.CustomerName,
			CustomerPhone: input.CustomerPhone,
		},
		Now: s.dates.CurrentTime(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, bill, input.BillNumber); err != nil {
		s.log.Error("failed to save bill", "bill_number", bill.BillNumber, "error", err)
		return nil, apperror.ErrSaveBillFailed
	}

	s.log.Info("bill saved", "bill_id", bill.ID, "bill_number", bill.BillNumber, "total", bill.Total.StringFixed(2))

	if s.notifier != nil {
		s.notifier.BillCreated(bill)
	}

	output := &SaveBillOutput{Bill: bill}

	if input.Print {
		r, err := s.printer.PrintBill(ctx, bill, settings)
		output.Receipt = r
		if err != nil {
			output.PrintWarning = apperror.GetAppError(err).Message
		}
	}

	if fromCart {
		s.carts.ClearCart(input.UserID)
	}

	next, err := s.sequencer.PeekNext(ctx)
	if err != nil {
		s.log.Warn("failed to read next bill number", "error", err)
	}
	output.NextBillNumber = next

	return output, nil
}

func (s *BillingService) resolveItems(ctx context.Context, input *SaveBillInput) ([]entity.BillItem, error) {
	if len(input.Lines) == 0 {
		return s.carts.Items(input.UserID), nil
	}

	cart := billing.NewCart()
	for _, line := range input.Lines {
		if line.Quantity < 1 {
			return nil, apperror.ErrInvalidQuantity
		}
		item, err := s.menuRepo.GetByID(ctx, line.MenuItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, apperror.NewNotFoundError("Menu item " + line.MenuItemID)
		}
		if !item.IsAvailable {
			return nil, apperror.NewBadRequestError(item.Name + " is not available")
		}
		cart.Add(*item)
		if line.Quantity > 1 {
			if _, err := cart.UpdateQuantity(item.ID, line.Quantity-1); err != nil {
				return nil, err
			}
		}
	}
	return cart.Items(), nil
}

// billNumber is the number the bill is assembled with. persist claims the
// final one under the counter lock.
func (s *BillingService) billNumber(ctx context.Context, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return s.sequencer.Current(ctx)
	}
	n, err := billing.ParseBillNumber(raw)
	if err != nil {
		return "", err
	}
	return billing.FormatBillNumber(n), nil
}

// stamp picks the bill instant. A manually chosen date keeps the current
// clock time so bills from the same day still sort by entry order.
func (s *BillingService) stamp(raw string) (time.Time, error) {
	now := s.dates.CurrentTime()
	if strings.TrimSpace(raw) == "" {
		return now, nil
	}

	d := s.dates.Parse(raw)
	if !billdate.IsValid(d) {
		return time.Time{}, apperror.NewBadRequestError("Invalid bill date")
	}
	return time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, now.Location()), nil
}

// persist claims the bill number and stores the bill while the counter row
// is locked, so concurrent saves never share a number and a failed insert
// never advances the counter. A clashing ID is regenerated and the save
// retried.
func (s *BillingService) persist(ctx context.Context, bill *entity.Bill, explicit string) error {
	var err error
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := s.sequencer.Claim(ctx, explicit, func(number string) error {
				bill.BillNumber = number
				return s.billRepo.Create(ctx, bill)
			})
			return err
		})
		if !errors.Is(err, repository.ErrDuplicateBillID) {
			return err
		}

		s.log.Warn("bill id taken, retrying", "bill_id", bill.ID, "attempt", attempt)
		billing.Reassign(bill, billing.NewBillID(s.dates.CurrentTime().Add(time.Duration(attempt)*time.Millisecond)))
	}
	return err
}

// GetBill retrieves a stored bill
func (s *BillingService) GetBill(ctx context.Context, id string) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}
