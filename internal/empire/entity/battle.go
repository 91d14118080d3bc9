package entity

import "time"

// BattleResult 是一次攻击的完整结算结果，调用方据此持久化并通知双方。
type BattleResult struct {
	ID                string    `json:"id"`
	AttackerID        EmpireID  `json:"attacker_id"`
	DefenderID        EmpireID  `json:"defender_id"`
	Winner            EmpireID  `json:"winner"`
	AttackerWon       bool      `json:"attacker_won"`
	Committed         Military  `json:"committed"`
	DefenderSnapshot  Military  `json:"defender_snapshot"`
	BaseAttackPower   float64   `json:"base_attack_power"`
	BaseDefensePower  float64   `json:"base_defense_power"`
	AttackPower       float64   `json:"attack_power"`
	DefensePower      float64   `json:"defense_power"`
	VictoryRatio      float64   `json:"victory_ratio"`
	AttackerLosses    Military  `json:"attacker_losses"`
	DefenderLosses    Military  `json:"defender_losses"`
	LandCaptured      int64     `json:"land_captured"`
	ResourcesCaptured Resources `json:"resources_captured"`
	FoughtAt          time.Time `json:"fought_at"`
}

// LossRate 返回 losses/base 的总伤亡率，base 为 0 时为 0。
func LossRate(losses, base Military) float64 {
	total := base.Total()
	if total == 0 {
		return 0
	}
	return float64(losses.Total()) / float64(total)
}
