package usecase

import (
	"strings"

	"github.com/go-kratos/kratos/v2/errors"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/domain"
)

const ReasonInvalidSector = "INVALID_SECTOR"

// sectorInput 字符集在转小写之前校验
type sectorInput struct {
	Name string `validate:"required,min=2,max=50,sector"`
}

// knownSectors 常见行业，未知行业同样允许，只记录日志
var knownSectors = map[string]struct{}{
	"pharmaceuticals": {}, "technology": {}, "agriculture": {}, "automotive": {}, "banking": {},
	"healthcare": {}, "energy": {}, "telecommunications": {}, "retail": {}, "manufacturing": {},
	"textiles": {}, "chemicals": {}, "steel": {}, "cement": {}, "real estate": {}, "education": {},
	"hospitality": {}, "logistics": {}, "aviation": {}, "railways": {}, "defense": {}, "space": {},
	"renewable energy": {}, "fintech": {}, "biotech": {}, "mining": {}, "oil gas": {}, "food processing": {},
}

// NormalizeSector 去除首尾空白后校验，通过后转小写。known 表示是否为常见行业
func NormalizeSector(raw string) (sector string, known bool, err error) {
	in := sectorInput{Name: strings.TrimSpace(raw)}
	if err := domain.Validate(in); err != nil {
		return "", false, errInvalidSector(err)
	}

	sector = strings.ToLower(in.Name)
	_, known = knownSectors[sector]
	return sector, known, nil
}

func errInvalidSector(err error) error {
	_, tag, _ := domain.FirstInvalid(err)
	switch tag {
	case "required":
		return errors.BadRequest(ReasonInvalidSector, "Sector name cannot be empty")
	case "min":
		return errors.BadRequest(ReasonInvalidSector, "Sector name must be at least 2 characters long")
	case "max":
		return errors.BadRequest(ReasonInvalidSector, "Sector name must be at most 50 characters long")
	default:
		return errors.BadRequest(ReasonInvalidSector,
			"Sector name contains invalid characters. Use only letters, numbers, spaces, hyphens, and underscores.")
	}
}
