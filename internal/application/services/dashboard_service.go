package services

import (
	"context"
	"sync"

	"github.com/whitenlighten/practice-gateway/internal/domain/entities"
	"github.com/whitenlighten/practice-gateway/internal/domain/policy"
	"github.com/whitenlighten/practice-gateway/internal/query"
)

// DashboardService aggregates the dashboard view: counts, recent activity
// and the actor's navigation. Sections are fetched concurrently and joined;
// a failed section renders as zero values rather than failing the dashboard.
type DashboardService struct {
	users        *UserService
	patients     *PatientService
	appointments *AppointmentService
	audit        *AuditService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	users *UserService,
	patients *PatientService,
	appointments *AppointmentService,
	audit *AuditService,
) *DashboardService {
	return &DashboardService{
		users:        users,
		patients:     patients,
		appointments: appointments,
		audit:        audit,
	}
}

// DashboardStats are the headline counts.
type DashboardStats struct {
	TotalPatients       int `json:"totalPatients"`
	TotalAppointments   int `json:"totalAppointments"`
	PendingAppointments int `json:"pendingAppointments"`
	TotalStaff          int `json:"totalStaff"`
}

// DashboardOverview is the aggregated dashboard payload.
type DashboardOverview struct {
	Stats          DashboardStats      `json:"stats"`
	RecentActivity []entities.Activity `json:"recentActivity"`
	Navigation     []policy.NavItem    `json:"navigation"`
}

// Overview fans out the section fetches and joins the results.
func (s *DashboardService) Overview(ctx context.Context, actor entities.Actor) *DashboardOverview {
	overview := &DashboardOverview{
		RecentActivity: []entities.Activity{},
		Navigation:     policy.Navigation(actor.Role),
	}

	countParams := query.ListParams{Page: 1, Limit: 1}
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		page := s.patients.List(ctx, actor, countParams)
		overview.Stats.TotalPatients = page.TotalRecord
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		page := s.appointments.List(ctx, actor, countParams)
		overview.Stats.TotalAppointments = page.TotalRecord
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		pending := countParams
		pending.Status = string(entities.AppointmentStatusPending)
		page := s.appointments.List(ctx, actor, pending)
		overview.Stats.PendingAppointments = page.TotalRecord
	}()

	if policy.Can(actor.Role, policy.ResourceUsers, "", policy.ActionManageUsers) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Staff counts shrink after the visibility filter, so fetch a full
			// page rather than a single record.
			page := s.users.List(ctx, actor, query.ListParams{Page: 1, Limit: query.MaxLimit})
			overview.Stats.TotalStaff = page.TotalRecord
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		feed := s.audit.RecentActivities(ctx, actor, query.ListParams{Page: 1, Limit: 10})
		overview.RecentActivity = feed.Activities
	}()

	wg.Wait()
	return overview
}
