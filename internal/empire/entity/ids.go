package entity

import (
	"strconv"

	"EmpireBuilder/internal/shared/utils"

	"github.com/google/uuid"
)

// EmpireID 全局唯一，uuid 文本。
type EmpireID string

// CityID 在帝国内唯一，雪花 id 的十进制文本。
type CityID string

func NewEmpireID() EmpireID {
	return EmpireID(uuid.NewString())
}

func NewCityID() CityID {
	return CityID(strconv.FormatInt(utils.NextID(), 10))
}

func NewBattleID() string {
	return uuid.NewString()
}

func (id EmpireID) String() string { return string(id) }

func (id CityID) String() string { return string(id) }
