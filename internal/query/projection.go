package query

// Projection 字段投影：只返回 Include 的字段，或排除 Exclude 的字段，二者互斥
type Projection struct {
	fields  []string
	exclude bool
}

// Include 仅返回指定字段
func Include(fields ...string) Projection {
	return Projection{fields: fields}
}

// Exclude 排除指定字段
func Exclude(fields ...string) Projection {
	return Projection{fields: fields, exclude: true}
}

// Fields 投影涉及的字段
func (p Projection) Fields() []string {
	return p.fields
}

// IsExclude 是否为排除模式
func (p Projection) IsExclude() bool {
	return p.exclude
}

// IsZero 未设置投影，返回全部字段
func (p Projection) IsZero() bool {
	return len(p.fields) == 0
}
