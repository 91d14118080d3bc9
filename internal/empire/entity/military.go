package entity

// UnitKind 兵种。
type UnitKind string

const (
	Infantry UnitKind = "infantry"
	Tanks    UnitKind = "tanks"
	Aircraft UnitKind = "aircraft"
	Ships    UnitKind = "ships"
)

var UnitKinds = []UnitKind{Infantry, Tanks, Aircraft, Ships}

func ParseUnitKind(s string) (UnitKind, bool) {
	for _, k := range UnitKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Military 是各兵种数量，永不为负。
type Military struct {
	Infantry int64 `json:"infantry" bson:"infantry" mapstructure:"infantry"`
	Tanks    int64 `json:"tanks" bson:"tanks" mapstructure:"tanks"`
	Aircraft int64 `json:"aircraft" bson:"aircraft" mapstructure:"aircraft"`
	Ships    int64 `json:"ships" bson:"ships" mapstructure:"ships"`
}

func (m Military) Get(k UnitKind) int64 {
	switch k {
	case Infantry:
		return m.Infantry
	case Tanks:
		return m.Tanks
	case Aircraft:
		return m.Aircraft
	case Ships:
		return m.Ships
	default:
		return 0
	}
}

func (m *Military) Set(k UnitKind, v int64) {
	switch k {
	case Infantry:
		m.Infantry = v
	case Tanks:
		m.Tanks = v
	case Aircraft:
		m.Aircraft = v
	case Ships:
		m.Ships = v
	}
}

func (m *Military) Add(k UnitKind, delta int64) {
	m.Set(k, m.Get(k)+delta)
}

func (m Military) Total() int64 {
	var n int64
	for _, k := range UnitKinds {
		n += m.Get(k)
	}
	return n
}

func (m Military) IsZero() bool {
	return m == Military{}
}

// Lacking 返回 want 中超出当前持有量的兵种。
func (m Military) Lacking(want Military) []UnitKind {
	var out []UnitKind
	for _, k := range UnitKinds {
		if want.Get(k) > m.Get(k) {
			out = append(out, k)
		}
	}
	return out
}

// HasNegative 判断是否存在负数兵力（请求校验用）。
func (m Military) HasNegative() bool {
	for _, k := range UnitKinds {
		if m.Get(k) < 0 {
			return true
		}
	}
	return false
}

func (m *Military) Clamp() {
	for _, k := range UnitKinds {
		if m.Get(k) < 0 {
			m.Set(k, 0)
		}
	}
}

func (m Military) Map() map[string]int64 {
	out := make(map[string]int64, len(UnitKinds))
	for _, k := range UnitKinds {
		out[string(k)] = m.Get(k)
	}
	return out
}
