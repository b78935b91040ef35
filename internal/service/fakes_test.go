package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fieldforce-crm/internal/domain"
	"github.com/spec-kit/fieldforce-crm/internal/repository"
)

// In-memory repository fakes. They implement the same not-found contract as
// the real ones: pgx.ErrNoRows when nothing matches.

type fakeSuperAdminRepo struct {
	accounts map[string]*domain.SuperAdmin
}

func newFakeSuperAdminRepo() *fakeSuperAdminRepo {
	return &fakeSuperAdminRepo{accounts: make(map[string]*domain.SuperAdmin)}
}

func (r *fakeSuperAdminRepo) Create(ctx context.Context, sa *domain.SuperAdmin) error {
	sa.CreatedAt = time.Now().UTC()
	r.accounts[sa.Email] = sa
	return nil
}

func (r *fakeSuperAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.SuperAdmin, error) {
	if sa, ok := r.accounts[email]; ok {
		copied := *sa
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeSuperAdminRepo) Exists(ctx context.Context) (bool, error) {
	return len(r.accounts) > 0, nil
}

type fakeAdminRepo struct {
	admins map[string]*domain.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[string]*domain.Admin)}
}

func (r *fakeAdminRepo) Create(ctx context.Context, admin *domain.Admin) error {
	admin.CreatedAt = time.Now().UTC()
	admin.UpdatedAt = admin.CreatedAt
	copied := *admin
	r.admins[admin.ID] = &copied
	return nil
}

func (r *fakeAdminRepo) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	if a, ok := r.admins[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	for _, a := range r.admins {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAdminRepo) ListPending(ctx context.Context, limit, offset int) ([]domain.Admin, int, error) {
	var pending []domain.Admin
	for _, a := range r.admins {
		if !a.Verified {
			pending = append(pending, *a)
		}
	}
	return pending, len(pending), nil
}

func (r *fakeAdminRepo) MarkVerified(ctx context.Context, id, verifiedBy string, at time.Time) error {
	a, ok := r.admins[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Verified = true
	a.VerifiedAt = &at
	a.VerifiedBy = &verifiedBy
	return nil
}

func (r *fakeAdminRepo) SetPassword(ctx context.Context, id, passwordHash string) error {
	a, ok := r.admins[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.PasswordHash = &passwordHash
	return nil
}

func (r *fakeAdminRepo) Stats(ctx context.Context) (*repository.AdminStats, error) {
	stats := &repository.AdminStats{}
	for _, a := range r.admins {
		stats.Total++
		if a.Verified {
			stats.Verified++
		} else {
			stats.Pending++
		}
	}
	return stats, nil
}

func (r *fakeAdminRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.admins[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.admins, id)
	return nil
}

type fakeOrgRepo struct {
	orgs map[string]*domain.Organization
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{orgs: make(map[string]*domain.Organization)}
}

func (r *fakeOrgRepo) Create(ctx context.Context, org *domain.Organization) error {
	org.CreatedAt = time.Now().UTC()
	org.UpdatedAt = org.CreatedAt
	copied := *org
	r.orgs[org.ID] = &copied
	return nil
}

func (r *fakeOrgRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	if o, ok := r.orgs[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

type fakeEmployeeRepo struct {
	employees map[string]*domain.Employee
	orgs      *fakeOrgRepo
}

func newFakeEmployeeRepo(orgs *fakeOrgRepo) *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]*domain.Employee), orgs: orgs}
}

func (r *fakeEmployeeRepo) CreateWithinQuota(ctx context.Context, emp *domain.Employee) error {
	org, ok := r.orgs.orgs[emp.OrganizationID]
	if !ok {
		return pgx.ErrNoRows
	}
	count := 0
	for _, e := range r.employees {
		if e.OrganizationID == emp.OrganizationID {
			count++
		}
	}
	if count >= org.EmployeeQuota {
		return repository.ErrEmployeeLimitReached
	}
	emp.CreatedAt = time.Now().UTC()
	emp.UpdatedAt = emp.CreatedAt
	copied := *emp
	r.employees[emp.ID] = &copied
	return nil
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, orgID, id string) (*domain.Employee, error) {
	if e, ok := r.employees[id]; ok && e.OrganizationID == orgID {
		copied := *e
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeEmployeeRepo) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	for _, e := range r.employees {
		if e.Email == email {
			copied := *e
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeEmployeeRepo) ListByOrganization(ctx context.Context, orgID string) ([]domain.Employee, error) {
	var result []domain.Employee
	for _, e := range r.employees {
		if e.OrganizationID == orgID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (r *fakeEmployeeRepo) CountByOrganization(ctx context.Context, orgID string) (int, error) {
	count := 0
	for _, e := range r.employees {
		if e.OrganizationID == orgID {
			count++
		}
	}
	return count, nil
}

func (r *fakeEmployeeRepo) SetPassword(ctx context.Context, id, passwordHash string) error {
	e, ok := r.employees[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.PasswordHash = &passwordHash
	return nil
}

func (r *fakeEmployeeRepo) SetActive(ctx context.Context, id string, active bool) error {
	e, ok := r.employees[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.Active = active
	return nil
}

func (r *fakeEmployeeRepo) LastKnownLocation(ctx context.Context, orgID, employeeID string) (*repository.EmployeeLocation, error) {
	return nil, pgx.ErrNoRows
}

type fakeFacilityRepo struct {
	facilities map[string]*domain.Facility
}

func newFakeFacilityRepo() *fakeFacilityRepo {
	return &fakeFacilityRepo{facilities: make(map[string]*domain.Facility)}
}

func (r *fakeFacilityRepo) Create(ctx context.Context, f *domain.Facility) error {
	f.CreatedAt = time.Now().UTC()
	f.UpdatedAt = f.CreatedAt
	copied := *f
	r.facilities[f.ID] = &copied
	return nil
}

func (r *fakeFacilityRepo) Update(ctx context.Context, f *domain.Facility) error {
	if _, ok := r.facilities[f.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *f
	r.facilities[f.ID] = &copied
	return nil
}

func (r *fakeFacilityRepo) GetByID(ctx context.Context, orgID, id string) (*domain.Facility, error) {
	if f, ok := r.facilities[id]; ok && f.OrganizationID == orgID {
		copied := *f
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeFacilityRepo) GetByName(ctx context.Context, orgID, name string) (*domain.Facility, error) {
	for _, f := range r.facilities {
		if f.OrganizationID == orgID && f.Name == name {
			copied := *f
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeFacilityRepo) List(ctx context.Context, filter repository.FacilityFilter) ([]domain.Facility, int, error) {
	var result []domain.Facility
	for _, f := range r.facilities {
		if f.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.Status != nil && f.Status != *filter.Status {
			continue
		}
		result = append(result, *f)
	}
	return result, len(result), nil
}

func (r *fakeFacilityRepo) SoftDelete(ctx context.Context, orgID, id string) error {
	f, ok := r.facilities[id]
	if !ok || f.OrganizationID != orgID || f.Status != domain.FacilityStatusActive {
		return pgx.ErrNoRows
	}
	now := time.Now().UTC()
	f.Status = domain.FacilityStatusInactive
	f.DeletedAt = &now
	return nil
}

func (r *fakeFacilityRepo) AddRating(ctx context.Context, orgID, id, employeeID string, rating int) (*domain.Facility, error) {
	f, ok := r.facilities[id]
	if !ok || f.OrganizationID != orgID {
		return nil, pgx.ErrNoRows
	}
	sum := f.Rating*float64(f.TotalRatings) + float64(rating)
	f.TotalRatings++
	f.Rating = sum / float64(f.TotalRatings)
	copied := *f
	return &copied, nil
}

func (r *fakeFacilityRepo) StatsByType(ctx context.Context, orgID string) ([]repository.FacilityTypeStats, error) {
	return nil, nil
}

type fakeClientRepo struct {
	clients map[string]*domain.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[string]*domain.Client)}
}

func (r *fakeClientRepo) Create(ctx context.Context, client *domain.Client) error {
	client.CreatedAt = time.Now().UTC()
	client.UpdatedAt = client.CreatedAt
	copied := *client
	r.clients[client.ID] = &copied
	return nil
}

func (r *fakeClientRepo) Update(ctx context.Context, client *domain.Client) error {
	if _, ok := r.clients[client.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *client
	r.clients[client.ID] = &copied
	return nil
}

func (r *fakeClientRepo) GetByID(ctx context.Context, orgID, id string) (*domain.Client, error) {
	if c, ok := r.clients[id]; ok && c.OrganizationID == orgID {
		copied := *c
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeClientRepo) GetByMobile(ctx context.Context, orgID, mobile string) (*domain.Client, error) {
	for _, c := range r.clients {
		if c.OrganizationID == orgID && c.Mobile == mobile {
			copied := *c
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeClientRepo) List(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, int, error) {
	var result []domain.Client
	for _, c := range r.clients {
		if c.OrganizationID == filter.OrganizationID {
			result = append(result, *c)
		}
	}
	return result, len(result), nil
}

func (r *fakeClientRepo) ListByCreator(ctx context.Context, orgID, createdBy string) ([]domain.Client, error) {
	var result []domain.Client
	for _, c := range r.clients {
		if c.OrganizationID == orgID && c.CreatedBy == createdBy {
			result = append(result, *c)
		}
	}
	return result, nil
}

type fakeProductRepo struct {
	products map[string]*domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*domain.Product)}
}

func (r *fakeProductRepo) Create(ctx context.Context, p *domain.Product) error {
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	copied := *p
	r.products[p.ID] = &copied
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *domain.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *p
	r.products[p.ID] = &copied
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, orgID, id string) (*domain.Product, error) {
	if p, ok := r.products[id]; ok && p.OrganizationID == orgID {
		copied := *p
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeProductRepo) GetByName(ctx context.Context, orgID, name string) (*domain.Product, error) {
	for _, p := range r.products {
		if p.OrganizationID == orgID && p.Name == name {
			copied := *p
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var result []domain.Product
	for _, p := range r.products {
		if p.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.ActiveOnly && !p.Active {
			continue
		}
		result = append(result, *p)
	}
	return result, len(result), nil
}

func (r *fakeProductRepo) Categories(ctx context.Context, orgID string) ([]string, error) {
	seen := make(map[string]struct{})
	var result []string
	for _, p := range r.products {
		if p.OrganizationID != orgID {
			continue
		}
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			result = append(result, p.Category)
		}
	}
	return result, nil
}

func (r *fakeProductRepo) SoftDelete(ctx context.Context, orgID, id string) error {
	p, ok := r.products[id]
	if !ok || p.OrganizationID != orgID || !p.Active {
		return pgx.ErrNoRows
	}
	now := time.Now().UTC()
	p.Active = false
	p.DeletedAt = &now
	return nil
}

func (r *fakeProductRepo) InventoryStats(ctx context.Context, orgID string) ([]domain.CategoryInventory, error) {
	return nil, nil
}

type fakeOrderRepo struct {
	orders   map[string]*domain.Order
	sales    *fakeSaleRepo
	products *fakeProductRepo
}

func newFakeOrderRepo(products *fakeProductRepo, sales *fakeSaleRepo) *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order), sales: sales, products: products}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *domain.Order) error {
	if _, ok := r.orders[order.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, orgID, id string) (*domain.Order, error) {
	if o, ok := r.orders[id]; ok && o.OrganizationID == orgID {
		copied := *o
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeOrderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	var result []domain.Order
	for _, o := range r.orders {
		if o.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.EmployeeID != nil && (o.EmployeeID == nil || *o.EmployeeID != *filter.EmployeeID) {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		result = append(result, *o)
	}
	return result, len(result), nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, orgID, id string, status domain.OrderStatus) error {
	o, ok := r.orders[id]
	if !ok || o.OrganizationID != orgID {
		return pgx.ErrNoRows
	}
	o.Status = status
	return nil
}

// Complete mirrors the transactional contract: either all stock decrements
// and the sale insert apply, or nothing does.
func (r *fakeOrderRepo) Complete(ctx context.Context, order *domain.Order, sale *domain.Sale) error {
	stored, ok := r.orders[order.ID]
	if !ok || stored.OrganizationID != order.OrganizationID {
		return pgx.ErrNoRows
	}
	for _, item := range order.Items {
		p, ok := r.products.products[item.ProductID]
		if !ok || p.Stock < item.Quantity {
			return repository.ErrInsufficientStock
		}
	}
	for _, item := range order.Items {
		r.products.products[item.ProductID].Stock -= item.Quantity
	}
	stored.Status = domain.OrderStatusCompleted
	sale.CreatedAt = time.Now().UTC()
	r.sales.sales = append(r.sales.sales, *sale)
	return nil
}

type fakeSaleRepo struct {
	sales []domain.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{}
}

func (r *fakeSaleRepo) ListByEmployee(ctx context.Context, orgID, employeeID string) ([]domain.Sale, error) {
	var result []domain.Sale
	for _, s := range r.sales {
		if s.OrganizationID == orgID && s.EmployeeID != nil && *s.EmployeeID == employeeID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *fakeSaleRepo) MonthlySales(ctx context.Context, orgID string, months int) ([]domain.MonthlySales, error) {
	return nil, nil
}

func (r *fakeSaleRepo) ProductStats(ctx context.Context, orgID, productID string) (*domain.ProductSalesStats, error) {
	return &domain.ProductSalesStats{}, nil
}

type fakeMeetingRepo struct {
	meetings map[string]*domain.Meeting
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: make(map[string]*domain.Meeting)}
}

func (r *fakeMeetingRepo) Create(ctx context.Context, m *domain.Meeting) error {
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt
	copied := *m
	r.meetings[m.ID] = &copied
	return nil
}

func (r *fakeMeetingRepo) GetByID(ctx context.Context, orgID, id string) (*domain.Meeting, error) {
	if m, ok := r.meetings[id]; ok && m.OrganizationID == orgID {
		copied := *m
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeMeetingRepo) GetActiveByEmployee(ctx context.Context, orgID, employeeID string) (*domain.Meeting, error) {
	for _, m := range r.meetings {
		if m.OrganizationID == orgID && m.EmployeeID == employeeID && m.CheckOutTime == nil {
			copied := *m
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeMeetingRepo) CheckOut(ctx context.Context, m *domain.Meeting) error {
	if _, ok := r.meetings[m.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *m
	r.meetings[m.ID] = &copied
	return nil
}

func (r *fakeMeetingRepo) UpdateOutcome(ctx context.Context, m *domain.Meeting) error {
	if _, ok := r.meetings[m.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *m
	r.meetings[m.ID] = &copied
	return nil
}

func (r *fakeMeetingRepo) ListByEmployee(ctx context.Context, orgID, employeeID string, limit, offset int) ([]domain.Meeting, error) {
	var result []domain.Meeting
	for _, m := range r.meetings {
		if m.OrganizationID == orgID && m.EmployeeID == employeeID {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (r *fakeMeetingRepo) CountActiveByFacility(ctx context.Context, orgID, facilityID string) (int, error) {
	count := 0
	for _, m := range r.meetings {
		if m.OrganizationID == orgID && m.FacilityID == facilityID && m.CheckOutTime == nil {
			count++
		}
	}
	return count, nil
}

func (r *fakeMeetingRepo) FacilityStats(ctx context.Context, orgID, facilityID string) (*domain.FacilityVisitStats, error) {
	return &domain.FacilityVisitStats{}, nil
}

func (r *fakeMeetingRepo) MonthlyVisits(ctx context.Context, orgID string, months int) ([]domain.MonthlyVisits, error) {
	return nil, nil
}

type fakeAttendanceRepo struct {
	records map[string]*domain.Attendance
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*domain.Attendance)}
}

func attendanceKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, a *domain.Attendance) error {
	copied := *a
	r.records[attendanceKey(a.EmployeeID, a.Date)] = &copied
	return nil
}

func (r *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*domain.Attendance, error) {
	if a, ok := r.records[attendanceKey(employeeID, date)]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAttendanceRepo) SetClockOut(ctx context.Context, employeeID string, date, clockOut time.Time) error {
	a, ok := r.records[attendanceKey(employeeID, date)]
	if !ok || a.ClockOutTime != nil {
		return pgx.ErrNoRows
	}
	a.ClockOutTime = &clockOut
	return nil
}

func (r *fakeAttendanceRepo) ListByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]domain.Attendance, error) {
	var result []domain.Attendance
	for _, a := range r.records {
		if a.EmployeeID == employeeID {
			result = append(result, *a)
		}
	}
	return result, nil
}

type fakeWFHRepo struct {
	requests map[string]*domain.WFHRequest
}

func newFakeWFHRepo() *fakeWFHRepo {
	return &fakeWFHRepo{requests: make(map[string]*domain.WFHRequest)}
}

func (r *fakeWFHRepo) Create(ctx context.Context, req *domain.WFHRequest) error {
	req.CreatedAt = time.Now().UTC()
	copied := *req
	r.requests[req.ID] = &copied
	return nil
}

func (r *fakeWFHRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*domain.WFHRequest, error) {
	for _, req := range r.requests {
		if req.EmployeeID == employeeID && req.Date.Equal(date) {
			copied := *req
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeWFHRepo) ListByOrganization(ctx context.Context, orgID string, status *domain.WFHStatus, limit, offset int) ([]domain.WFHRequest, error) {
	var result []domain.WFHRequest
	for _, req := range r.requests {
		if req.OrganizationID != orgID {
			continue
		}
		if status != nil && req.Status != *status {
			continue
		}
		result = append(result, *req)
	}
	return result, nil
}

func (r *fakeWFHRepo) Decide(ctx context.Context, orgID, id string, status domain.WFHStatus, decidedBy string, decidedAt time.Time) error {
	req, ok := r.requests[id]
	if !ok || req.OrganizationID != orgID || req.Status != domain.WFHStatusPending {
		return pgx.ErrNoRows
	}
	req.Status = status
	req.DecidedBy = &decidedBy
	req.DecidedAt = &decidedAt
	return nil
}
