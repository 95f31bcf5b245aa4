// Package admin serves the read-only operator views: dashboard aggregates
// and the user, store, customer and invitation listings.
package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/care-package/internal/activity"
	"github.com/hugh/care-package/internal/database/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

// NewUsersMetric selects how the dashboard's "new users this month" figure
// is computed.
type NewUsersMetric string

const (
	// MetricActive counts active users regardless of when they signed up.
	MetricActive NewUsersMetric = "active"
	// MetricCreatedThisMonth counts users created since the first of the
	// current month in UTC.
	MetricCreatedThisMonth NewUsersMetric = "created_this_month"
)

func (m NewUsersMetric) Valid() bool {
	return m == MetricActive || m == MetricCreatedThisMonth
}

const defaultActivityLimit = 10

type Options struct {
	NewUsersMetric NewUsersMetric
	ActivityLimit  int
}

type Service struct {
	db            *gorm.DB
	feed          activity.Feed
	metric        NewUsersMetric
	activityLimit int
	now           func() time.Time
}

func NewService(db *gorm.DB, feed activity.Feed, opts Options) *Service {
	if !opts.NewUsersMetric.Valid() {
		opts.NewUsersMetric = MetricActive
	}
	if opts.ActivityLimit <= 0 {
		opts.ActivityLimit = defaultActivityLimit
	}
	if feed == nil {
		feed = activity.NewStaticFeed()
	}
	return &Service{
		db:            db,
		feed:          feed,
		metric:        opts.NewUsersMetric,
		activityLimit: opts.ActivityLimit,
		now:           time.Now,
	}
}

type Stats struct {
	TotalUsers        int64
	TotalStores       int64
	ActiveStores      int64
	NewUsersThisMonth int64
}

type Dashboard struct {
	Stats          Stats
	RecentActivity []activity.Entry
}

// StartOfMonth returns midnight UTC on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Dashboard runs the four counts and the feed read concurrently. Any failure
// fails the whole result.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		stats  Stats
		recent []activity.Entry
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.User{}).Count(&stats.TotalUsers).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Store{}).Count(&stats.TotalStores).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Store{}).
			Where("is_active = ?", true).
			Count(&stats.ActiveStores).Error
	})
	g.Go(func() error {
		q := s.db.WithContext(gctx).Model(&models.User{})
		switch s.metric {
		case MetricCreatedThisMonth:
			q = q.Where("created_at >= ?", StartOfMonth(s.now()))
		default:
			q = q.Where("is_active = ?", true)
		}
		return q.Count(&stats.NewUsersThisMonth).Error
	})
	g.Go(func() error {
		var err error
		recent, err = s.feed.Recent(gctx, s.activityLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building dashboard: %w", err)
	}

	if recent == nil {
		recent = []activity.Entry{}
	}

	return &Dashboard{Stats: stats, RecentActivity: recent}, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return &user, nil
}

// StoreSummary is a store row joined with its owning customer. Owner fields
// are nil when the customer cannot be resolved.
type StoreSummary struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Name       string
	Address    *string
	Phone      *string
	Email      *string
	Category   *string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	OwnerName  *string
	OwnerEmail *string
}

func (s *Service) ListStores(ctx context.Context) ([]StoreSummary, error) {
	var rows []StoreSummary
	err := s.db.WithContext(ctx).
		Table("stores").
		Select(`stores.id, stores.customer_id, stores.name, stores.address, stores.phone,
			stores.email, stores.category, stores.is_active, stores.created_at, stores.updated_at,
			customers.name AS owner_name, customers.email AS owner_email`).
		Joins("LEFT JOIN customers ON customers.id = stores.customer_id").
		Order("stores.created_at asc").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing stores: %w", err)
	}
	return rows, nil
}

// GetStore returns the full store row with its owner preloaded.
func (s *Service) GetStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := s.db.WithContext(ctx).Preload("Customer").First(&store, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading store: %w", err)
	}
	return &store, nil
}

type CustomerSummary struct {
	models.Customer
	StoreCount    int64
	ContractCount int64
}

func (s *Service) ListCustomers(ctx context.Context) ([]CustomerSummary, error) {
	db := s.db.WithContext(ctx)

	var customers []models.Customer
	if err := db.Order("created_at asc").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	storeCounts, err := countByCustomer(db, &models.Store{})
	if err != nil {
		return nil, fmt.Errorf("counting stores: %w", err)
	}
	contractCounts, err := countByCustomer(db, &models.Contract{})
	if err != nil {
		return nil, fmt.Errorf("counting contracts: %w", err)
	}

	out := make([]CustomerSummary, 0, len(customers))
	for _, c := range customers {
		out = append(out, CustomerSummary{
			Customer:      c,
			StoreCount:    storeCounts[c.ID],
			ContractCount: contractCounts[c.ID],
		})
	}
	return out, nil
}

func countByCustomer(db *gorm.DB, model interface{}) (map[uuid.UUID]int64, error) {
	var rows []struct {
		CustomerID uuid.UUID
		Count      int64
	}
	if err := db.Model(model).
		Select("customer_id, count(*) AS count").
		Group("customer_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.CustomerID] = r.Count
	}
	return counts, nil
}

// GetCustomer returns the customer with its contracts and stores.
func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).
		Preload("Contracts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Stores", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		First(&customer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading customer: %w", err)
	}
	return &customer, nil
}

func (s *Service) ListInvitations(ctx context.Context) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := s.db.WithContext(ctx).
		Preload("Customer").
		Order("created_at asc").
		Find(&invitations).Error; err != nil {
		return nil, fmt.Errorf("listing invitations: %w", err)
	}
	return invitations, nil
}
