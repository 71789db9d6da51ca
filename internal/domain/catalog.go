package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Intensity type slugs.
const (
	IntensityRPE           = "rpe"
	IntensityPercentage1RM = "percentage_1rm"
	IntensityRIR           = "rir"
)

// MuscleGroup is immutable reference data.
type MuscleGroup struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Slug         string             `bson:"slug" json:"slug"`
	Category     string             `bson:"category" json:"category"` // upper, core, lower
	DisplayOrder int                `bson:"displayOrder" json:"display_order"`
}

type Equipment struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
	Slug string             `bson:"slug" json:"slug"`
}

type IntensityType struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

type TechniqueType struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

type SetType struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Slug         string             `bson:"slug" json:"slug"`
	Abbreviation string             `bson:"abbreviation" json:"abbreviation"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
}

// Catalog is a snapshot of all reference data.
type Catalog struct {
	MuscleGroups   []MuscleGroup   `json:"muscle_groups"`
	Equipment      []Equipment     `json:"equipment"`
	IntensityTypes []IntensityType `json:"intensity_types"`
	TechniqueTypes []TechniqueType `json:"technique_types"`
	SetTypes       []SetType       `json:"set_types"`
}

func (c *Catalog) MuscleGroup(id primitive.ObjectID) (*MuscleGroup, bool) {
	for i := range c.MuscleGroups {
		if c.MuscleGroups[i].ID == id {
			return &c.MuscleGroups[i], true
		}
	}
	return nil, false
}

func (c *Catalog) EquipmentByID(id primitive.ObjectID) (*Equipment, bool) {
	for i := range c.Equipment {
		if c.Equipment[i].ID == id {
			return &c.Equipment[i], true
		}
	}
	return nil, false
}

func (c *Catalog) IntensityType(id primitive.ObjectID) (*IntensityType, bool) {
	for i := range c.IntensityTypes {
		if c.IntensityTypes[i].ID == id {
			return &c.IntensityTypes[i], true
		}
	}
	return nil, false
}

func (c *Catalog) TechniqueType(id primitive.ObjectID) (*TechniqueType, bool) {
	for i := range c.TechniqueTypes {
		if c.TechniqueTypes[i].ID == id {
			return &c.TechniqueTypes[i], true
		}
	}
	return nil, false
}

func (c *Catalog) SetType(id primitive.ObjectID) (*SetType, bool) {
	for i := range c.SetTypes {
		if c.SetTypes[i].ID == id {
			return &c.SetTypes[i], true
		}
	}
	return nil, false
}
