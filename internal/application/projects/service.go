package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"estatebook-backend/internal/application/aggregation"
	"estatebook-backend/internal/domain"
)

// ChangeChannel is the Redis pub/sub channel carrying project change events
// for the subscribe endpoint. Latest event wins; no ordering guarantee across
// pushes.
const ChangeChannel = "projects:changes"

// ErrProjectNotFound is returned for lookups and saves against a missing id.
var ErrProjectNotFound = errors.New("Project not found")

// ValidationError rejects a save; nothing is persisted when one is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ChangeEvent is published on ChangeChannel after every successful write.
type ChangeEvent struct {
	Action    string    `json:"action"` // "created" | "saved" | "deleted"
	ProjectID string    `json:"project_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service encapsulates project document operations.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// CreateProject inserts a fresh project with empty collections and a dated
// default name.
func (s *Service) CreateProject(ctx context.Context) (*domain.Project, error) {
	project := &domain.Project{
		ID:           uuid.New(),
		Name:         "New project " + time.Now().Format("2006-01-02"),
		Buyers:       datatypes.JSONSlice[domain.Buyer]{},
		Lands:        datatypes.JSONSlice[domain.LandParcel]{},
		Buildings:    datatypes.JSONSlice[domain.Building]{},
		Transactions: datatypes.JSONSlice[domain.Transaction]{},
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(project).Error; err != nil {
		return nil, fmt.Errorf("Failed to create project: %v", err)
	}
	s.publish(ctx, "created", project)
	return project, nil
}

// ListProjects returns all projects ordered by name, the order the project
// picker shows them in.
func (s *Service) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := s.DB.WithContext(ctx).Order("name asc").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch projects: %v", err)
	}
	return projects, nil
}

// GetProject returns one project by id.
func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// SaveProjectInput is the whole-document save payload. Derived parcel fields
// in the payload are ignored and recomputed.
type SaveProjectInput struct {
	Name         string               `json:"name"`
	Site         string               `json:"site"`
	Zone         string               `json:"zone"`
	Buyers       []domain.Buyer       `json:"buyers"`
	Lands        []domain.LandParcel  `json:"lands"`
	Buildings    []domain.Building    `json:"buildings"`
	Transactions []domain.Transaction `json:"transactions"`
}

// SaveProject validates and persists a full project document. Validation
// failure rejects the save with no partial persistence. On success every
// parcel's holdingAreaM2/holdingAreaPing/totalPrice have been recomputed from
// its items and updatedAt is bumped.
func (s *Service) SaveProject(ctx context.Context, id uuid.UUID, in SaveProjectInput) (*domain.Project, error) {
	stored, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	lands := make([]domain.LandParcel, len(in.Lands))
	copy(lands, in.Lands)
	for i := range lands {
		prev := findParcel(stored.Lands, lands[i].ID)
		if err := aggregation.NormalizeParcel(&lands[i], prev); err != nil {
			if errors.Is(err, aggregation.ErrLotNumberRequired) {
				return nil, invalid("Land parcel %q: %v", lands[i].Section, err)
			}
			return nil, err
		}
	}

	for _, b := range in.Buildings {
		if b.Address == "" {
			return nil, invalid("Building address is required")
		}
	}

	if err := s.validateTransactions(stored, in); err != nil {
		return nil, err
	}

	if in.Name == "" {
		return nil, invalid("Project name is required")
	}

	stored.Name = in.Name
	stored.Site = in.Site
	stored.Zone = in.Zone
	stored.Buyers = in.Buyers
	stored.Lands = lands
	stored.Buildings = in.Buildings
	stored.Transactions = in.Transactions
	stored.UpdatedAt = time.Now().UTC()

	if err := s.DB.WithContext(ctx).Save(stored).Error; err != nil {
		return nil, fmt.Errorf("Failed to save project: %v", err)
	}
	s.publish(ctx, "saved", stored)
	return stored, nil
}

// validateTransactions enforces the ledger contract for new or edited entries:
// general means no target, land/building must resolve within the incoming
// document, and amounts must be positive. Entries carried over unchanged are
// exempt: a stored dangling reference is kept as-is, since deleting an asset
// must not erase its financial history.
func (s *Service) validateTransactions(stored *domain.Project, in SaveProjectInput) error {
	landIDs := make(map[string]bool, len(in.Lands))
	for _, l := range in.Lands {
		landIDs[l.ID] = true
	}
	buildingIDs := make(map[string]bool, len(in.Buildings))
	for _, b := range in.Buildings {
		buildingIDs[b.ID] = true
	}
	previous := make(map[string]domain.Transaction, len(stored.Transactions))
	for _, t := range stored.Transactions {
		previous[t.ID] = t
	}

	for _, t := range in.Transactions {
		if t.Type != domain.TxIncome && t.Type != domain.TxExpense {
			return invalid("Transaction type must be income or expense")
		}
		prev, existed := previous[t.ID]
		unchanged := existed && prev.LinkedType == t.LinkedType && prev.LinkedID == t.LinkedID
		switch t.LinkedType {
		case "", domain.LinkGeneral:
			if t.LinkedID != "" {
				return invalid("A general transaction cannot reference an asset")
			}
		case domain.LinkLand:
			if !landIDs[t.LinkedID] && !unchanged {
				return invalid("Transaction references an unknown land parcel")
			}
		case domain.LinkBuilding:
			if !buildingIDs[t.LinkedID] && !unchanged {
				return invalid("Transaction references an unknown building")
			}
		default:
			return invalid("Unknown transaction linkage %q", t.LinkedType)
		}
		// Positivity holds for new entries and for any edited amount; only an
		// amount carried over untouched from the stored revision is exempt.
		if (!existed || prev.Amount != t.Amount) && t.Amount.Decimal().Sign() <= 0 {
			return invalid("Transaction amount must be a positive number")
		}
	}
	return nil
}

// DeleteProject removes a project and, with it, every nested entity.
func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.Project{})
	if res.Error != nil {
		return fmt.Errorf("Failed to delete project: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	s.publish(ctx, "deleted", &domain.Project{ID: id})
	return nil
}

// SubscribeChanges opens a pub/sub subscription on the change channel. The
// caller owns the returned subscription and must Close it.
func (s *Service) SubscribeChanges(ctx context.Context) *redis.PubSub {
	return s.Rdb.Subscribe(ctx, ChangeChannel)
}

func (s *Service) publish(ctx context.Context, action string, p *domain.Project) {
	if s.Rdb == nil {
		return
	}
	b, _ := json.Marshal(ChangeEvent{
		Action:    action,
		ProjectID: p.ID.String(),
		UpdatedAt: p.UpdatedAt,
	})
	// Fire-and-forget: a lost notification only delays the next refresh.
	_ = s.Rdb.Publish(ctx, ChangeChannel, b).Err()
}

func findParcel(lands []domain.LandParcel, id string) *domain.LandParcel {
	if id == "" {
		return nil
	}
	for i := range lands {
		if lands[i].ID == id {
			return &lands[i]
		}
	}
	return nil
}
