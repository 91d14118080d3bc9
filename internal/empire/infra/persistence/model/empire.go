package model

import (
	"time"

	"EmpireBuilder/internal/empire/entity"
)

// EmpireDoc mongodb 中的帝国文档，_id 即帝国 id。
type EmpireDoc struct {
	ID                 string           `bson:"_id"`
	Name               string           `bson:"name"`
	Ruler              string           `bson:"ruler"`
	Lat                float64          `bson:"lat"`
	Lng                float64          `bson:"lng"`
	IsAI               bool             `bson:"is_ai"`
	AI                 *AIProfileDoc    `bson:"ai,omitempty"`
	Land               int64            `bson:"land"`
	Resources          entity.Resources `bson:"resources"`
	Military           entity.Military  `bson:"military"`
	Cities             []CityDoc        `bson:"cities"`
	Buildings          entity.Buildings `bson:"buildings"`
	LastResourceUpdate time.Time        `bson:"last_resource_update"`
	CreatedAt          time.Time        `bson:"created_at"`
	Version            int64            `bson:"version"`
}

type AIProfileDoc struct {
	Difficulty   string    `bson:"difficulty"`
	Strategy     string    `bson:"strategy"`
	LastActionAt time.Time `bson:"last_action_at"`
}

type CityDoc struct {
	ID        string           `bson:"id"`
	Name      string           `bson:"name"`
	Tier      string           `bson:"tier"`
	Buildings entity.Buildings `bson:"buildings"`
	CreatedAt time.Time        `bson:"created_at"`
}
