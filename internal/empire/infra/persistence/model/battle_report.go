package model

import "time"

// BattleReport 战报，战斗明细整体存为 json 列。
type BattleReport struct {
	ID           string    `gorm:"column:id;type:varchar(64);comment:战报id;primaryKey;not null;" json:"id"`
	AttackerID   string    `gorm:"column:attacker_id;type:varchar(64);comment:进攻方;index:idx_attacker_fought;not null;" json:"attacker_id"`
	DefenderID   string    `gorm:"column:defender_id;type:varchar(64);comment:防守方;index:idx_defender_fought;not null;" json:"defender_id"`
	Winner       string    `gorm:"column:winner;type:varchar(64);comment:胜方;not null;" json:"winner"`
	AttackerWon  bool      `gorm:"column:attacker_won;type:tinyint(1);comment:进攻方是否胜利;not null;default:0;" json:"attacker_won"`
	AttackPower  float64   `gorm:"column:attack_power;type:double;comment:浮动后攻击战力;not null;" json:"attack_power"`
	DefensePower float64   `gorm:"column:defense_power;type:double;comment:浮动后防御战力;not null;" json:"defense_power"`
	LandCaptured int64     `gorm:"column:land_captured;type:bigint;comment:夺取土地;not null;default:0;" json:"land_captured"`
	Detail       string    `gorm:"column:detail;type:json;comment:完整结算明细;" json:"detail"`
	FoughtAt     time.Time `gorm:"column:fought_at;type:datetime(3);comment:战斗时间;index:idx_attacker_fought;index:idx_defender_fought;not null;" json:"fought_at"`
}

func (r *BattleReport) TableName() string {
	return "battle_report"
}
