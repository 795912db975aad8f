package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"chargenow/internal/domain"
	"chargenow/internal/redis"
	"chargenow/internal/repository"
)

func matchesFilter(f repository.Filter, riderID int64, operatorID *int64) bool {
	if f.RiderID != nil && *f.RiderID != riderID {
		return false
	}
	if f.OperatorID != nil && (operatorID == nil || *operatorID != *f.OperatorID) {
		return false
	}
	return true
}

func int64Ptr(v int64) *int64 {
	return &v
}

// ──────────────────────────────────────────────
// MOCK REQUEST REPOSITORY
// ──────────────────────────────────────────────

// MockRequestRepository is a mock implementation of RequestRepository.
type MockRequestRepository struct {
	mu       sync.RWMutex
	requests map[int64]*domain.Request
	nextID   int64

	// Counters for verification
	CreateCallCount         int32
	UpdateStatusIfCallCount int32

	// Error injection
	CreateError         error
	UpdateStatusIfError error
	SetStatusError      error
}

// NewMockRequestRepository creates a new mock request repository.
func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{
		requests: make(map[int64]*domain.Request),
		nextID:   1000,
	}
}

// AddRequest adds a request to the mock repository.
func (m *MockRequestRepository) AddRequest(req *domain.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	m.requests[req.ID] = req
}

func (m *MockRequestRepository) Create(ctx context.Context, req *domain.Request) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	req.ID = m.nextID
	req.CreatedAt = time.Now()
	stored := *req
	m.requests[req.ID] = &stored
	return nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *req
	return &copy, nil
}

func (m *MockRequestRepository) List(ctx context.Context, f repository.Filter) ([]*domain.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Request, 0, len(m.requests))
	for _, r := range m.requests {
		if matchesFilter(f, r.RiderID, r.OperatorID) {
			copy := *r
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *MockRequestRepository) UpdateStatusIf(ctx context.Context, id int64, operatorID *int64, from, to domain.RequestStatus) (bool, error) {
	atomic.AddInt32(&m.UpdateStatusIfCallCount, 1)
	if m.UpdateStatusIfError != nil {
		return false, m.UpdateStatusIfError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	if operatorID != nil && !req.AddressedTo(*operatorID) {
		return false, nil
	}
	req.Status = to
	return true, nil
}

func (m *MockRequestRepository) SetStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	if m.SetStatusError != nil {
		return m.SetStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	req.Status = status
	return nil
}

func (m *MockRequestRepository) AssignOperator(ctx context.Context, id, operatorID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok || req.Status != domain.RequestStatusPending {
		return false, nil
	}
	req.OperatorID = int64Ptr(operatorID)
	return true, nil
}

func (m *MockRequestRepository) HasInteraction(ctx context.Context, riderID, operatorID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.requests {
		if r.RiderID == riderID && r.AddressedTo(operatorID) {
			return true, nil
		}
	}
	return false, nil
}

// GetRequest returns a request for test assertions.
func (m *MockRequestRepository) GetRequest(id int64) *domain.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if req, ok := m.requests[id]; ok {
		copy := *req
		return &copy
	}
	return nil
}

func (m *MockRequestRepository) snapshot() map[int64]domain.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[int64]domain.Request, len(m.requests))
	for id, r := range m.requests {
		snap[id] = *r
	}
	return snap
}

func (m *MockRequestRepository) restore(snap map[int64]domain.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make(map[int64]*domain.Request, len(snap))
	for id, r := range snap {
		r := r
		m.requests[id] = &r
	}
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository. It
// resolves the rider of a booking through the request repository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[int64]*domain.Booking
	nextID   int64
	requests *MockRequestRepository

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError         error
	UpdateStatusIfError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository(requests *MockRequestRepository) *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[int64]*domain.Booking),
		nextID:   2000,
		requests: requests,
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(b *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	m.bookings[b.ID] = b
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.bookings {
		if existing.RequestID == b.RequestID {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	b.ID = m.nextID
	b.CreatedAt = time.Now()
	stored := *b
	m.bookings[b.ID] = &stored
	return nil
}

func (m *MockBookingRepository) withRider(b *domain.Booking) *domain.Booking {
	copy := *b
	if req := m.requests.GetRequest(b.RequestID); req != nil {
		copy.RiderID = req.RiderID
	}
	return &copy
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m.withRider(b), nil
}

func (m *MockBookingRepository) List(ctx context.Context, f repository.Filter) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		withRider := m.withRider(b)
		if matchesFilter(f, withRider.RiderID, withRider.OperatorID) {
			result = append(result, withRider)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *MockBookingRepository) UpdateStatusIf(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error) {
	if m.UpdateStatusIfError != nil {
		return false, m.UpdateStatusIfError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, s := range from {
		if b.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}

	now := time.Now()
	b.Status = to
	switch to {
	case domain.BookingStatusStarted:
		b.StartedAt = now
	case domain.BookingStatusCompleted:
		b.CompletedAt = now
	case domain.BookingStatusCancelled:
		b.CancelledAt = now
	}
	return true, nil
}

// CountBookings returns the number of stored bookings.
func (m *MockBookingRepository) CountBookings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

// GetBooking returns a booking for test assertions.
func (m *MockBookingRepository) GetBooking(id int64) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.bookings[id]; ok {
		return m.withRider(b)
	}
	return nil
}

func (m *MockBookingRepository) snapshot() (map[int64]domain.Booking, int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[int64]domain.Booking, len(m.bookings))
	for id, b := range m.bookings {
		snap[id] = *b
	}
	return snap, m.nextID
}

func (m *MockBookingRepository) restore(snap map[int64]domain.Booking, nextID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = make(map[int64]*domain.Booking, len(snap))
	for id, b := range snap {
		b := b
		m.bookings[id] = &b
	}
	m.nextID = nextID
}

// ──────────────────────────────────────────────
// MOCK TRANSACTOR
// ──────────────────────────────────────────────

// MockTransactor serializes units of work and restores the request and
// booking repositories when fn fails.
type MockTransactor struct {
	mu       sync.Mutex
	requests *MockRequestRepository
	bookings *MockBookingRepository

	// Counters
	CommitCount   int32
	RollbackCount int32

	// Error injection
	BeginError error
}

// NewMockTransactor creates a new mock transactor.
func NewMockTransactor(requests *MockRequestRepository, bookings *MockBookingRepository) *MockTransactor {
	return &MockTransactor{requests: requests, bookings: bookings}
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if m.BeginError != nil {
		return m.BeginError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	requestSnap := m.requests.snapshot()
	bookingSnap, bookingNextID := m.bookings.snapshot()

	err := fn(ctx, repository.Repositories{
		Requests: m.requests,
		Bookings: m.bookings,
	})
	if err != nil {
		atomic.AddInt32(&m.RollbackCount, 1)
		m.requests.restore(requestSnap)
		m.bookings.restore(bookingSnap, bookingNextID)
		return err
	}

	atomic.AddInt32(&m.CommitCount, 1)
	return nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[int64]*domain.Payment
	nextID   int64

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[int64]*domain.Payment),
		nextID:   3000,
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	stored := *p
	m.payments[p.ID] = &stored
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

func (m *MockPaymentRepository) List(ctx context.Context, f repository.Filter) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		if matchesFilter(f, p.RiderID, &p.OperatorID) {
			copy := *p
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *MockPaymentRepository) UpdateStatusIf(ctx context.Context, id int64, from, to domain.PaymentStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	if to == domain.PaymentStatusCompleted {
		p.SettledAt = time.Now()
	}
	return true, nil
}

// CountPayments returns the number of stored payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// ──────────────────────────────────────────────
// MOCK FEEDBACK REPOSITORY
// ──────────────────────────────────────────────

// MockFeedbackRepository is a mock implementation of FeedbackRepository.
type MockFeedbackRepository struct {
	mu       sync.RWMutex
	feedback map[int64]*domain.Feedback
	nextID   int64
}

// NewMockFeedbackRepository creates a new mock feedback repository.
func NewMockFeedbackRepository() *MockFeedbackRepository {
	return &MockFeedbackRepository{
		feedback: make(map[int64]*domain.Feedback),
		nextID:   4000,
	}
}

func (m *MockFeedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	f.ID = m.nextID
	f.CreatedAt = time.Now()
	stored := *f
	m.feedback[f.ID] = &stored
	return nil
}

func (m *MockFeedbackRepository) List(ctx context.Context, f repository.Filter) ([]*domain.Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Feedback, 0, len(m.feedback))
	for _, fb := range m.feedback {
		if matchesFilter(f, fb.RiderID, &fb.OperatorID) {
			copy := *fb
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *MockFeedbackRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.feedback[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.feedback, id)
	return nil
}

// ──────────────────────────────────────────────
// MOCK OPERATOR REPOSITORY
// ──────────────────────────────────────────────

// MockOperatorRepository is a mock implementation of OperatorRepository.
type MockOperatorRepository struct {
	mu        sync.RWMutex
	operators map[int64]*domain.Operator

	// Counters for verification
	GetByIDCallCount int32

	// Error injection
	GetByIDError error
}

// NewMockOperatorRepository creates a new mock operator repository.
func NewMockOperatorRepository() *MockOperatorRepository {
	return &MockOperatorRepository{
		operators: make(map[int64]*domain.Operator),
	}
}

// AddOperator adds an operator to the mock repository.
func (m *MockOperatorRepository) AddOperator(op *domain.Operator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if op.Status == "" {
		op.Status = domain.OperatorStatusOffline
	}
	if op.Verification == "" {
		op.Verification = domain.VerificationNotVerified
	}
	m.operators[op.ID] = op
}

func (m *MockOperatorRepository) GetByID(ctx context.Context, id int64) (*domain.Operator, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	op, ok := m.operators[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *op
	return &copy, nil
}

func (m *MockOperatorRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Operator, 0, len(ids))
	for _, id := range ids {
		if op, ok := m.operators[id]; ok {
			copy := *op
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockOperatorRepository) UpdateProfile(ctx context.Context, op *domain.Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.operators[op.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = op.Name
	stored.Phone = op.Phone
	stored.LicenseDoc = op.LicenseDoc
	return nil
}

func (m *MockOperatorRepository) UpdateStatus(ctx context.Context, id int64, status domain.OperatorStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.operators[id]
	if !ok {
		return repository.ErrNotFound
	}
	op.Status = status
	return nil
}

func (m *MockOperatorRepository) UpdateVerification(ctx context.Context, id int64, v domain.VerificationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.operators[id]
	if !ok {
		return repository.ErrNotFound
	}
	op.Verification = v
	return nil
}

// ──────────────────────────────────────────────
// MOCK VAN REPOSITORY
// ──────────────────────────────────────────────

// MockVanRepository is a mock implementation of VanRepository.
type MockVanRepository struct {
	mu     sync.RWMutex
	vans   map[int64]*domain.Van
	nextID int64
}

// NewMockVanRepository creates a new mock van repository.
func NewMockVanRepository() *MockVanRepository {
	return &MockVanRepository{
		vans:   make(map[int64]*domain.Van),
		nextID: 500,
	}
}

func (m *MockVanRepository) Create(ctx context.Context, van *domain.Van) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.vans {
		if v.VanNumber == van.VanNumber {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	van.ID = m.nextID
	van.CreatedAt = time.Now()
	stored := *van
	m.vans[van.ID] = &stored
	return nil
}

func (m *MockVanRepository) GetByID(ctx context.Context, id int64) (*domain.Van, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *v
	return &copy, nil
}

func (m *MockVanRepository) GetByOperatorID(ctx context.Context, operatorID int64) (*domain.Van, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.vans {
		if v.OperatorID != nil && *v.OperatorID == operatorID {
			copy := *v
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockVanRepository) SetOperator(ctx context.Context, vanID int64, operatorID *int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	van, ok := m.vans[vanID]
	if !ok {
		return repository.ErrNotFound
	}
	if operatorID != nil {
		for id, v := range m.vans {
			if id != vanID && v.OperatorID != nil && *v.OperatorID == *operatorID {
				return repository.ErrDuplicate
			}
		}
		operatorID = int64Ptr(*operatorID)
	}
	van.OperatorID = operatorID
	return nil
}

// ──────────────────────────────────────────────
// MOCK RIDER REPOSITORY
// ──────────────────────────────────────────────

// MockRiderRepository is a mock implementation of RiderRepository.
type MockRiderRepository struct {
	mu     sync.RWMutex
	riders map[int64]*domain.Rider
}

// NewMockRiderRepository creates a new mock rider repository.
func NewMockRiderRepository() *MockRiderRepository {
	return &MockRiderRepository{
		riders: make(map[int64]*domain.Rider),
	}
}

// AddRider adds a rider to the mock repository.
func (m *MockRiderRepository) AddRider(r *domain.Rider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.riders[r.ID] = r
}

func (m *MockRiderRepository) GetByID(ctx context.Context, id int64) (*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.riders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *r
	return &copy, nil
}

func (m *MockRiderRepository) UpdateProfile(ctx context.Context, r *domain.Rider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.riders[r.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = r.Name
	stored.Phone = r.Phone
	stored.Address = r.Address
	return nil
}

// ──────────────────────────────────────────────
// MOCK VEHICLE REPOSITORY
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
// Deleting a vehicle named by a request fails with ErrReferenced.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[int64]*domain.Vehicle
	nextID   int64
	requests *MockRequestRepository
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository(requests *MockRequestRepository) *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[int64]*domain.Vehicle),
		nextID:   100,
		requests: requests,
	}
}

// AddVehicle adds a vehicle to the mock repository.
func (m *MockVehicleRepository) AddVehicle(v *domain.Vehicle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[v.ID] = v
}

func (m *MockVehicleRepository) duplicate(v *domain.Vehicle) bool {
	for id, existing := range m.vehicles {
		if id != v.ID && existing.RegistrationNumber == v.RegistrationNumber {
			return true
		}
	}
	return false
}

func (m *MockVehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.duplicate(v) {
		return repository.ErrDuplicate
	}
	m.nextID++
	v.ID = m.nextID
	v.CreatedAt = time.Now()
	stored := *v
	m.vehicles[v.ID] = &stored
	return nil
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *v
	return &copy, nil
}

func (m *MockVehicleRepository) ListByRider(ctx context.Context, riderID int64) ([]*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Vehicle, 0)
	for _, v := range m.vehicles {
		if v.RiderID == riderID {
			copy := *v
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockVehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[v.ID]; !ok {
		return repository.ErrNotFound
	}
	if m.duplicate(v) {
		return repository.ErrDuplicate
	}
	stored := *v
	m.vehicles[v.ID] = &stored
	return nil
}

func (m *MockVehicleRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[id]; !ok {
		return repository.ErrNotFound
	}
	if m.requests != nil {
		m.requests.mu.RLock()
		defer m.requests.mu.RUnlock()
		for _, r := range m.requests.requests {
			if r.VehicleID == id {
				return repository.ErrReferenced
			}
		}
	}
	delete(m.vehicles, id)
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

type heldLock struct {
	token  string
	expiry time.Time
}

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[int64]heldLock

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[int64]heldLock),
	}
}

func (m *MockLockStore) AcquireRequestLock(ctx context.Context, requestID int64, ttl time.Duration) (string, bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return "", false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if held, exists := m.locks[requestID]; exists && time.Now().Before(held.expiry) {
		return "", false, nil // Lock still held.
	}

	token := uuid.NewString()
	m.locks[requestID] = heldLock{token: token, expiry: time.Now().Add(ttl)}
	return token, true, nil
}

func (m *MockLockStore) ReleaseRequestLock(ctx context.Context, requestID int64, token string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if held, ok := m.locks[requestID]; ok && held.token == token {
		delete(m.locks, requestID)
	}
	return nil
}

// Hold takes the lock for a request on behalf of another caller.
func (m *MockLockStore) Hold(requestID int64, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[requestID] = heldLock{token: "other-holder", expiry: time.Now().Add(ttl)}
}

// IsLocked checks if a request is locked (for test assertions).
func (m *MockLockStore) IsLocked(requestID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	held, exists := m.locks[requestID]
	return exists && time.Now().Before(held.expiry)
}

// ──────────────────────────────────────────────
// MOCK OPERATOR CACHE
// ──────────────────────────────────────────────

// MockOperatorCache is a mock implementation of the operator cache.
type MockOperatorCache struct {
	mu        sync.Mutex
	operators map[int64]redis.CachedOperator
	online    map[int64]bool

	// Counters
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32

	// Error injection
	GetError        error
	OnlineError     error
	InvalidateError error
}

// NewMockOperatorCache creates a new mock operator cache.
func NewMockOperatorCache() *MockOperatorCache {
	return &MockOperatorCache{
		operators: make(map[int64]redis.CachedOperator),
		online:    make(map[int64]bool),
	}
}

func (m *MockOperatorCache) GetOperator(ctx context.Context, operatorID int64) (*redis.CachedOperator, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.operators[operatorID]
	if !ok {
		return nil, nil
	}
	return &op, nil
}

func (m *MockOperatorCache) SetOperator(ctx context.Context, op *redis.CachedOperator) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operators[op.ID] = *op
	return nil
}

func (m *MockOperatorCache) InvalidateOperator(ctx context.Context, operatorID int64) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	if m.InvalidateError != nil {
		return m.InvalidateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.operators, operatorID)
	return nil
}

func (m *MockOperatorCache) AddOnlineOperator(ctx context.Context, operatorID int64) error {
	if m.OnlineError != nil {
		return m.OnlineError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.online[operatorID] = true
	return nil
}

func (m *MockOperatorCache) RemoveOnlineOperator(ctx context.Context, operatorID int64) error {
	if m.OnlineError != nil {
		return m.OnlineError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.online, operatorID)
	return nil
}

func (m *MockOperatorCache) GetOnlineOperators(ctx context.Context) ([]int64, error) {
	if m.OnlineError != nil {
		return nil, m.OnlineError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.online))
	for id := range m.online {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// IsOnline reports whether an operator is in the online set.
func (m *MockOperatorCache) IsOnline(operatorID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online[operatorID]
}

// IsCached reports whether an operator entry is cached.
func (m *MockOperatorCache) IsCached(operatorID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.operators[operatorID]
	return ok
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)

// Ensure mocks implement the interfaces they stand in for.
var (
	_ repository.RequestRepository  = (*MockRequestRepository)(nil)
	_ repository.BookingRepository  = (*MockBookingRepository)(nil)
	_ repository.PaymentRepository  = (*MockPaymentRepository)(nil)
	_ repository.FeedbackRepository = (*MockFeedbackRepository)(nil)
	_ repository.OperatorRepository = (*MockOperatorRepository)(nil)
	_ repository.VanRepository      = (*MockVanRepository)(nil)
	_ repository.RiderRepository    = (*MockRiderRepository)(nil)
	_ repository.VehicleRepository  = (*MockVehicleRepository)(nil)
	_ repository.Transactor         = (*MockTransactor)(nil)
	_ redis.LockStoreInterface      = (*MockLockStore)(nil)
	_ redis.OperatorCacheInterface  = (*MockOperatorCache)(nil)
)
