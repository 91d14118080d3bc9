package entity

// ResourceKind 资源种类。
type ResourceKind string

const (
	Gold       ResourceKind = "gold"
	Food       ResourceKind = "food"
	Iron       ResourceKind = "iron"
	Oil        ResourceKind = "oil"
	Population ResourceKind = "population"
)

// ResourceKinds 固定遍历顺序，报错时 missing 列表按这个顺序给出。
var ResourceKinds = []ResourceKind{Gold, Food, Iron, Oil, Population}

func ParseResourceKind(s string) (ResourceKind, bool) {
	for _, k := range ResourceKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Resources 是定长资源向量，任何变更后都不允许出现负值。
type Resources struct {
	Gold       int64 `json:"gold" bson:"gold" mapstructure:"gold"`
	Food       int64 `json:"food" bson:"food" mapstructure:"food"`
	Iron       int64 `json:"iron" bson:"iron" mapstructure:"iron"`
	Oil        int64 `json:"oil" bson:"oil" mapstructure:"oil"`
	Population int64 `json:"population" bson:"population" mapstructure:"population"`
}

func (r Resources) Get(k ResourceKind) int64 {
	switch k {
	case Gold:
		return r.Gold
	case Food:
		return r.Food
	case Iron:
		return r.Iron
	case Oil:
		return r.Oil
	case Population:
		return r.Population
	default:
		return 0
	}
}

func (r *Resources) Set(k ResourceKind, v int64) {
	switch k {
	case Gold:
		r.Gold = v
	case Food:
		r.Food = v
	case Iron:
		r.Iron = v
	case Oil:
		r.Oil = v
	case Population:
		r.Population = v
	}
}

func (r *Resources) Add(k ResourceKind, delta int64) {
	r.Set(k, r.Get(k)+delta)
}

func (r Resources) Plus(o Resources) Resources {
	out := r
	for _, k := range ResourceKinds {
		out.Add(k, o.Get(k))
	}
	return out
}

func (r Resources) Minus(o Resources) Resources {
	out := r
	for _, k := range ResourceKinds {
		out.Add(k, -o.Get(k))
	}
	return out
}

// Times 按整数倍放大，用于批量训练的总价。
func (r Resources) Times(n int64) Resources {
	var out Resources
	for _, k := range ResourceKinds {
		out.Set(k, r.Get(k)*n)
	}
	return out
}

// Missing 返回所有不足以支付 cost 的资源种类。
func (r Resources) Missing(cost Resources) []ResourceKind {
	var out []ResourceKind
	for _, k := range ResourceKinds {
		if r.Get(k) < cost.Get(k) {
			out = append(out, k)
		}
	}
	return out
}

func (r Resources) Covers(cost Resources) bool {
	return len(r.Missing(cost)) == 0
}

// Clamp 把所有负值归零。
func (r *Resources) Clamp() {
	for _, k := range ResourceKinds {
		if r.Get(k) < 0 {
			r.Set(k, 0)
		}
	}
}

func (r Resources) IsZero() bool {
	return r == Resources{}
}

// Map 供日志和错误 data 使用。
func (r Resources) Map() map[string]int64 {
	out := make(map[string]int64, len(ResourceKinds))
	for _, k := range ResourceKinds {
		out[string(k)] = r.Get(k)
	}
	return out
}

// Cost 是一次扣费的完整向量：资源 + 可选的土地。
type Cost struct {
	Resources Resources `json:"resources"`
	Land      int64     `json:"land"`
}
