package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"jyotikabilling/billfilter"
	"jyotikabilling/client"
	"jyotikabilling/config"
	"jyotikabilling/models"
)

const billsPath = "/bills"

// BulkPrintEndpoints are tried in order until one answers with bills.
var BulkPrintEndpoints = []string{"/bulk-print", "/print/bulk", "/invoices/bulk-print"}

var ErrNoBulkPrintEndpoint = errors.New("No valid bulk print endpoint found")

// BillAPI is the backend the store talks to. *client.Client implements it.
type BillAPI interface {
	ListBills(ctx context.Context) ([]models.Bill, error)
	GetBill(ctx context.Context, id string) (*models.Bill, error)
	CreateBill(ctx context.Context, draft models.BillDraft) (*models.Bill, error)
	UpdateBill(ctx context.Context, id string, draft models.BillDraft) (*models.Bill, error)
	DeleteBill(ctx context.Context, id string) error
	PostBulkPrint(ctx context.Context, path string, ids []string) ([]models.Bill, error)
}

type Store struct {
	mu    sync.Mutex
	state State

	api BillAPI
	log *logrus.Logger
	Now func() time.Time
}

func New(api BillAPI) *Store {
	return &Store{
		state: NewState(),
		api:   api,
		log:   config.GetLogger(),
		Now:   time.Now,
	}
}

// Dispatch applies a under the lock and returns a snapshot of the
// resulting state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state.clone()
}

// State returns a snapshot that the caller may modify freely.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) reject(op Op, err error) error {
	apiErr := client.AsAPIError(err)
	s.Dispatch(Action{Op: op, Phase: StatusRejected, Err: apiErr})
	s.log.WithFields(logrus.Fields{
		"op":     op,
		"status": apiErr.Status,
	}).Warn(apiErr.Message)
	return apiErr
}

func (s *Store) FetchBills(ctx context.Context) ([]models.Bill, error) {
	s.Dispatch(Pending(OpFetchAll))
	bills, err := s.api.ListBills(ctx)
	if err != nil {
		return nil, s.reject(OpFetchAll, err)
	}
	s.Dispatch(Action{Op: OpFetchAll, Phase: StatusFulfilled, Bills: bills})
	return bills, nil
}

func (s *Store) FetchBill(ctx context.Context, id string) (*models.Bill, error) {
	s.Dispatch(Pending(OpFetchByID))
	bill, err := s.api.GetBill(ctx, id)
	if err != nil {
		return nil, s.reject(OpFetchByID, err)
	}
	s.Dispatch(Action{Op: OpFetchByID, Phase: StatusFulfilled, Bill: bill})
	return bill, nil
}

// CreateBill validates the draft locally and only calls the API when it is
// clean. Validation failures are reported as a rejected create.
func (s *Store) CreateBill(ctx context.Context, draft models.BillDraft) (*models.Bill, error) {
	s.Dispatch(Pending(OpCreate))
	if errs := models.ValidateBill(draft); len(errs) > 0 {
		return nil, s.reject(OpCreate, client.NewValidationError(errs))
	}

	prepared := s.prepareDraft(draft)
	bill, err := s.api.CreateBill(ctx, prepared)
	if err != nil {
		return nil, s.reject(OpCreate, err)
	}
	s.Dispatch(Action{Op: OpCreate, Phase: StatusFulfilled, Bill: bill})
	return bill, nil
}

// prepareDraft fills the values the form may leave empty. The serial is a
// display hint; the server assigns the real one. An empty charge type is left
// for the server to store as Other.
func (s *Store) prepareDraft(d models.BillDraft) models.BillDraft {
	if d.ClientID == "" {
		d.ClientID = uuid.NewString()
	}
	if d.SerialNumber == 0 {
		d.SerialNumber = s.NextSerialHint()
	}
	if strings.TrimSpace(d.BillDate) == "" {
		d.BillDate = s.Now().UTC().Format(time.RFC3339)
	}
	if d.Status == "" {
		d.Status = models.StatusPending
	}
	return d
}

func (s *Store) UpdateBill(ctx context.Context, id string, draft models.BillDraft) (*models.Bill, error) {
	s.Dispatch(Pending(OpUpdate))
	bill, err := s.api.UpdateBill(ctx, id, draft)
	if err != nil {
		return nil, s.reject(OpUpdate, err)
	}
	s.Dispatch(Action{Op: OpUpdate, Phase: StatusFulfilled, Bill: bill})
	return bill, nil
}

func (s *Store) DeleteBill(ctx context.Context, id string) error {
	s.Dispatch(Pending(OpDelete))
	if err := s.api.DeleteBill(ctx, id); err != nil {
		return s.reject(OpDelete, err)
	}
	s.Dispatch(Action{Op: OpDelete, Phase: StatusFulfilled, ID: id})
	return nil
}

// FetchBulkPrintBills walks BulkPrintEndpoints. A not-found answer or a body
// that is not a bill list moves on to the next endpoint; any other failure
// stops the walk.
func (s *Store) FetchBulkPrintBills(ctx context.Context, ids []string) ([]models.Bill, error) {
	s.Dispatch(Pending(OpBulkPrint))
	for _, endpoint := range BulkPrintEndpoints {
		path := billsPath + endpoint
		bills, err := s.api.PostBulkPrint(ctx, path, ids)
		if err == nil {
			s.Dispatch(Action{Op: OpBulkPrint, Phase: StatusFulfilled, Bills: bills})
			return bills, nil
		}
		if client.IsNotFound(err) || errors.Is(err, client.ErrUnexpectedFormat) {
			s.log.WithField("path", path).Debug("bulk print endpoint unavailable")
			continue
		}
		return nil, s.reject(OpBulkPrint, err)
	}
	return nil, s.reject(OpBulkPrint, ErrNoBulkPrintEndpoint)
}

// PrintSelected prepares the selection from the current view and fetches it
// for printing.
func (s *Store) PrintSelected(ctx context.Context) ([]models.Bill, error) {
	bills, err := s.PrepareBulkPrint()
	if err != nil {
		return nil, err
	}
	return s.FetchBulkPrintBills(ctx, billfilter.Keys(bills))
}
