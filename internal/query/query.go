// Package query 提供经过校验的列表过滤语法、排序指令和字段投影描述。
//
// 查询串语法（多个条件以 & 连接，彼此为 AND 关系）：
//
//	name=alice          等于
//	age!=18             不等于
//	age>18 age>=18      大于 / 大于等于
//	age<18 age<=18      小于 / 小于等于
//	email=a@x.com,b@x.com  IN
//	name=~ali           不区分大小写包含
//	sort=-created_at,name  排序，前缀 - 表示降序
//
// 字段必须在实体的 Schema 中声明，值按声明的类型转换。page 与 limit 会被忽略。
// 条件按路径规则解码，+ 保持原样（如时区偏移 +07:00），空格需写作 %20。
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Op 比较运算符
type Op string

const (
	OpEq       Op = "eq"
	OpNe       Op = "ne"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpIn       Op = "in"
	OpContains Op = "contains"
)

// Kind 字段值类型
type Kind int

const (
	String Kind = iota
	Int
	Bool
	Time
)

// Schema 允许过滤与排序的字段（列名 -> 类型）
type Schema map[string]Kind

// Condition 单个过滤条件
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Filter 条件集合，条件之间为 AND
type Filter struct {
	Conditions []Condition
}

// Where 创建过滤器
func Where(conds ...Condition) Filter {
	return Filter{Conditions: conds}
}

// Eq 等值条件
func Eq(field string, value any) Condition {
	return Condition{Field: field, Op: OpEq, Value: value}
}

// And 追加条件，返回新的过滤器
func (f Filter) And(conds ...Condition) Filter {
	out := make([]Condition, 0, len(f.Conditions)+len(conds))
	out = append(out, f.Conditions...)
	out = append(out, conds...)
	return Filter{Conditions: out}
}

// Has 是否包含针对某字段的条件
func (f Filter) Has(field string) bool {
	for _, c := range f.Conditions {
		if c.Field == field {
			return true
		}
	}
	return false
}

// IsEmpty 是否为空过滤器
func (f Filter) IsEmpty() bool {
	return len(f.Conditions) == 0
}

// Sort 排序指令
type Sort struct {
	Field string
	Desc  bool
}

// Parsed 解析结果
type Parsed struct {
	Filter Filter
	Sort   []Sort
}

// 分页参数由调用方单独读取，不进入过滤器
var reserved = map[string]bool{"page": true, "limit": true}

// 按长度排列，保证 >= 先于 > 匹配
var operators = []struct {
	token string
	op    Op
}{
	{"!=", OpNe},
	{">=", OpGte},
	{"<=", OpLte},
	{"=", OpEq},
	{">", OpGt},
	{"<", OpLt},
}

// Parse 按 schema 解析 URL 风格的查询串
func Parse(raw string, schema Schema) (Parsed, error) {
	var parsed Parsed
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return parsed, nil
	}

	for _, escaped := range strings.Split(raw, "&") {
		if escaped == "" {
			continue
		}
		term, err := url.PathUnescape(escaped)
		if err != nil {
			return Parsed{}, fmt.Errorf("invalid query term %q: %w", escaped, err)
		}

		key, op, value, ok := splitTerm(term)
		if !ok {
			return Parsed{}, fmt.Errorf("query term %q has no operator", term)
		}
		if reserved[key] {
			continue
		}

		if key == "sort" {
			if op != OpEq {
				return Parsed{}, fmt.Errorf("sort only supports =")
			}
			sorts, err := parseSort(value, schema)
			if err != nil {
				return Parsed{}, err
			}
			parsed.Sort = append(parsed.Sort, sorts...)
			continue
		}

		kind, ok := schema[key]
		if !ok {
			return Parsed{}, fmt.Errorf("field %q is not filterable", key)
		}

		cond, err := buildCondition(key, op, value, kind)
		if err != nil {
			return Parsed{}, err
		}
		parsed.Filter.Conditions = append(parsed.Filter.Conditions, cond)
	}

	return parsed, nil
}

func splitTerm(term string) (string, Op, string, bool) {
	idx, tokenLen := -1, 0
	var op Op
	for _, o := range operators {
		i := strings.Index(term, o.token)
		if i <= 0 {
			continue
		}
		// 取最靠左的运算符；位置相同时取更长的记号
		if idx == -1 || i < idx || (i == idx && len(o.token) > tokenLen) {
			idx, tokenLen, op = i, len(o.token), o.op
		}
	}
	if idx == -1 {
		return "", "", "", false
	}
	return strings.TrimSpace(term[:idx]), op, term[idx+tokenLen:], true
}

func buildCondition(field string, op Op, value string, kind Kind) (Condition, error) {
	if op == OpEq && strings.HasPrefix(value, "~") {
		if kind != String {
			return Condition{}, fmt.Errorf("field %q does not support contains", field)
		}
		return Condition{Field: field, Op: OpContains, Value: strings.TrimPrefix(value, "~")}, nil
	}

	if op == OpEq && strings.Contains(value, ",") {
		parts := strings.Split(value, ",")
		values := make([]any, 0, len(parts))
		for _, p := range parts {
			v, err := convert(field, p, kind)
			if err != nil {
				return Condition{}, err
			}
			values = append(values, v)
		}
		return Condition{Field: field, Op: OpIn, Value: values}, nil
	}

	if kind == Bool && op != OpEq && op != OpNe {
		return Condition{}, fmt.Errorf("field %q only supports = and !=", field)
	}

	v, err := convert(field, value, kind)
	if err != nil {
		return Condition{}, err
	}
	return Condition{Field: field, Op: op, Value: v}, nil
}

func convert(field, value string, kind Kind) (any, error) {
	switch kind {
	case Int:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("field %q expects an integer", field)
		}
		return n, nil
	case Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("field %q expects a boolean", field)
		}
		return b, nil
	case Time:
		ts, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, fmt.Errorf("field %q expects an RFC3339 time", field)
		}
		return ts, nil
	default:
		return value, nil
	}
}

func parseSort(value string, schema Schema) ([]Sort, error) {
	var sorts []Sort
	for _, f := range strings.Split(value, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		s := Sort{Field: f}
		if strings.HasPrefix(f, "-") {
			s = Sort{Field: f[1:], Desc: true}
		} else if strings.HasPrefix(f, "+") {
			s.Field = f[1:]
		}
		if _, ok := schema[s.Field]; !ok {
			return nil, fmt.Errorf("field %q is not sortable", s.Field)
		}
		sorts = append(sorts, s)
	}
	return sorts, nil
}
