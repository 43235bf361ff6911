package enums

import "fmt"

// EquipmentType is the category of a rental listing.
type EquipmentType string

const (
	EquipmentTypeTractor    EquipmentType = "Tractor"
	EquipmentTypeHarvester  EquipmentType = "Harvester"
	EquipmentTypeTruck      EquipmentType = "Truck"
	EquipmentTypePlough     EquipmentType = "Plough"
	EquipmentTypeSeedDrill  EquipmentType = "Seed Drill"
	EquipmentTypeSprayer    EquipmentType = "Sprayer"
	EquipmentTypeThresher   EquipmentType = "Thresher"
	EquipmentTypeCultivator EquipmentType = "Cultivator"
	EquipmentTypeRotavator  EquipmentType = "Rotavator"
	EquipmentTypeWaterPump  EquipmentType = "Water Pump"
	EquipmentTypeTrailer    EquipmentType = "Trailer"
	EquipmentTypeOther      EquipmentType = "Other"
)

var validEquipmentTypes = []EquipmentType{
	EquipmentTypeTractor,
	EquipmentTypeHarvester,
	EquipmentTypeTruck,
	EquipmentTypePlough,
	EquipmentTypeSeedDrill,
	EquipmentTypeSprayer,
	EquipmentTypeThresher,
	EquipmentTypeCultivator,
	EquipmentTypeRotavator,
	EquipmentTypeWaterPump,
	EquipmentTypeTrailer,
	EquipmentTypeOther,
}

// EquipmentTypes lists the selectable types in display order.
func EquipmentTypes() []EquipmentType {
	out := make([]EquipmentType, len(validEquipmentTypes))
	copy(out, validEquipmentTypes)
	return out
}

// String implements fmt.Stringer.
func (e EquipmentType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EquipmentType.
func (e EquipmentType) IsValid() bool {
	for _, candidate := range validEquipmentTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEquipmentType converts raw input into an EquipmentType.
func ParseEquipmentType(value string) (EquipmentType, error) {
	for _, candidate := range validEquipmentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid equipment type %q", value)
}

// EquipmentCondition grades the state of a rental listing.
type EquipmentCondition string

const (
	EquipmentConditionExcellent EquipmentCondition = "Excellent"
	EquipmentConditionGood      EquipmentCondition = "Good"
	EquipmentConditionFair      EquipmentCondition = "Fair"
)

var validEquipmentConditions = []EquipmentCondition{
	EquipmentConditionExcellent,
	EquipmentConditionGood,
	EquipmentConditionFair,
}

// String implements fmt.Stringer.
func (c EquipmentCondition) String() string {
	return string(c)
}

// IsValid reports whether the value is a known EquipmentCondition.
func (c EquipmentCondition) IsValid() bool {
	for _, candidate := range validEquipmentConditions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseEquipmentCondition converts raw input into an EquipmentCondition.
func ParseEquipmentCondition(value string) (EquipmentCondition, error) {
	for _, candidate := range validEquipmentConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid equipment condition %q", value)
}

// EquipmentImages are the emoji a listing may use as its picture.
var EquipmentImages = []string{"🚜", "🌾", "🚚", "🔧", "💧", "🌱", "🚿", "⚙️"}
