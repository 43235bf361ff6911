package equipment

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	"github.com/agroconnect/agroconnect-backend/pkg/logger"
	"github.com/agroconnect/agroconnect-backend/pkg/money"
)

//go:embed data.json
var bundledData []byte

type seedFile struct {
	Equipment []seedEntry `json:"equipment"`
}

type seedEntry struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Price          string  `json:"price"`
	Image          string  `json:"image"`
	Owner          string  `json:"owner"`
	OwnerEmail     string  `json:"ownerEmail"`
	OwnerPhone     string  `json:"ownerPhone"`
	Rating         float64 `json:"rating"`
	Location       string  `json:"location"`
	Specifications string  `json:"specifications"`
	Condition      string  `json:"condition"`
	Available      *bool   `json:"available"`
}

// SeedLock keeps API instances that boot together from importing twice.
type SeedLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Seeder imports the bundled listings into an empty pool.
type Seeder struct {
	repo *Repository
	lock SeedLock
	data []byte
	logg *logger.Logger
}

// NewSeeder builds a seeder. lock may be nil on a single node.
func NewSeeder(repo *Repository, lock SeedLock, logg *logger.Logger) *Seeder {
	return &Seeder{repo: repo, lock: lock, data: bundledData, logg: logg}
}

// Seed imports the bundled list when no listing exists yet and returns how
// many rows were written. A populated pool is left untouched, and so is one
// another instance is seeding right now.
func (s *Seeder) Seed(ctx context.Context) (int, error) {
	if s.lock != nil {
		held, err := s.lock.Acquire(ctx)
		if err != nil {
			return 0, fmt.Errorf("acquire seed lock: %w", err)
		}
		if !held {
			if s.logg != nil {
				s.logg.Info(ctx, "equipment seed running on another instance")
			}
			return 0, nil
		}
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx)); err != nil && s.logg != nil {
				s.logg.Error(ctx, "release equipment seed lock", err)
			}
		}()
	}

	rows, err := parseSeed(s.data)
	if err != nil {
		return 0, err
	}
	written := 0
	err = s.repo.Transaction(ctx, func(tx *Repository) error {
		n, err := tx.Count(ctx)
		if err != nil {
			return fmt.Errorf("count equipment: %w", err)
		}
		if n > 0 {
			return nil
		}
		if err := tx.CreateBatch(ctx, rows); err != nil {
			return fmt.Errorf("insert seed equipment: %w", err)
		}
		written = len(rows)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if written > 0 && s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "count", written), "seeded equipment from bundled data")
	}
	return written, nil
}

func parseSeed(data []byte) ([]models.Equipment, error) {
	var file seedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode seed equipment: %w", err)
	}
	rows := make([]models.Equipment, 0, len(file.Equipment))
	for _, e := range file.Equipment {
		typ, err := enums.ParseEquipmentType(e.Type)
		if err != nil {
			typ = enums.EquipmentTypeOther
		}
		cond, err := enums.ParseEquipmentCondition(e.Condition)
		if err != nil {
			cond = enums.EquipmentConditionGood
		}
		available := true
		if e.Available != nil {
			available = *e.Available
		}
		rating := e.Rating
		if rating == 0 {
			rating = defaultRating
		}
		phone := strings.TrimSpace(e.OwnerPhone)
		if phone == "" {
			phone = phoneNotProvided
		}
		rows = append(rows, models.Equipment{
			Name:           e.Name,
			Type:           typ,
			Price:          money.EnsureRupeePrefix(e.Price),
			PriceAmount:    money.ParseAmount(e.Price),
			Image:          firstNonEmpty(e.Image, defaultImage),
			Owner:          e.Owner,
			OwnerEmail:     e.OwnerEmail,
			OwnerPhone:     phone,
			Rating:         rating,
			Location:       firstNonEmpty(e.Location, "Unknown"),
			Specifications: e.Specifications,
			Condition:      cond,
			Available:      available,
			IsFromJSON:     true,
		})
	}
	return rows, nil
}

func firstNonEmpty(v, fallback string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return fallback
}
