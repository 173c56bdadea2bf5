package uom

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-costeo/internal/application/dto"
	"github.com/jhoicas/inventario-costeo/internal/domain"
	"github.com/jhoicas/inventario-costeo/internal/domain/entity"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
	"github.com/jhoicas/inventario-costeo/pkg/units"
)

// UnitUseCase casos de uso del catálogo de unidades (crear, listar, resolver).
type UnitUseCase struct {
	repo     repository.UnitRepository
	resolver *Resolver
}

// NewUnitUseCase construye el caso de uso.
func NewUnitUseCase(repo repository.UnitRepository, resolver *Resolver) *UnitUseCase {
	return &UnitUseCase{repo: repo, resolver: resolver}
}

// Create valida y registra una unidad. Las personalizadas deben apuntar a una unidad del sistema.
func (uc *UnitUseCase) Create(ctx context.Context, companyID string, in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	unit := &entity.UnitOfMeasure{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Name:         name,
		Abbreviation: strings.TrimSpace(in.Abbreviation),
		CreatedAt:    time.Now(),
	}

	if in.BaseUnitID == nil || *in.BaseUnitID == "" {
		family, err := units.Family(unit.Abbreviation)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrConversion, err)
		}
		if in.Family != "" && in.Family != family {
			return nil, fmt.Errorf("%w: la abreviatura %s es de la familia %s", domain.ErrInvalidInput, unit.Abbreviation, family)
		}
		unit.Family = family
		unit.BaseConversionRate = decimal.NewFromInt(1)
	} else {
		base, err := uc.resolver.load(ctx, companyID, *in.BaseUnitID)
		if err != nil {
			return nil, err
		}
		if !base.IsSystemUnit() {
			return nil, fmt.Errorf("%w: la unidad base debe ser una unidad del sistema", domain.ErrConversion)
		}
		if !in.BaseConversionRate.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		baseID := base.ID
		unit.BaseUnitID = &baseID
		unit.BaseConversionRate = in.BaseConversionRate
		unit.Family = base.Family
	}

	if err := uc.repo.Create(ctx, unit); err != nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// List lista las unidades de la empresa.
func (uc *UnitUseCase) List(ctx context.Context, companyID string) ([]dto.UnitResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUnitResponse(u))
	}
	return out, nil
}

// Resolve expone el factor entre dos unidades.
func (uc *UnitUseCase) Resolve(ctx context.Context, companyID, fromID, toID string) (*dto.ConversionResponse, error) {
	res, err := uc.resolver.Resolve(ctx, companyID, fromID, toID)
	if err != nil {
		return nil, err
	}
	return &dto.ConversionResponse{
		FromUnitID: res.Source.ID,
		ToUnitID:   res.Target.ID,
		Factor:     res.Factor,
	}, nil
}

func toUnitResponse(u *entity.UnitOfMeasure) *dto.UnitResponse {
	return &dto.UnitResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Family:             u.Family,
		Abbreviation:       u.Abbreviation,
		BaseUnitID:         u.BaseUnitID,
		BaseConversionRate: u.BaseConversionRate,
		CreatedAt:          u.CreatedAt,
	}
}
