// Package query builds the server-side filter sent as the q parameter.
//
// Randori accepts jQuery QueryBuilder style rule trees, JSON encoded and
// then base64 encoded so they survive a query string.
package query

import (
	"encoding/base64"
	"fmt"

	"github.com/bytedance/sonic"
)

// Threshold is the minimum target temptation exported ("medium or higher"
// on the platform's scoring scale).
const Threshold = 25

// Field and operator names understood by the platform.
const (
	FieldTargetTemptation  = "table.target_temptation"
	OperatorGreaterOrEqual = "greater_or_equal"
)

// Condition joins the rules of a Filter.
type Condition string

const (
	ConditionAnd Condition = "AND"
	ConditionOr  Condition = "OR"
)

// Rule is a single field comparison.
type Rule struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    int    `json:"value"`
}

// Filter is the root of a rule tree.
type Filter struct {
	Condition Condition `json:"condition"`
	Rules     []Rule    `json:"rules"`
}

// Build returns the filter matching entities whose target temptation is
// at least threshold.
func Build(threshold int) Filter {
	return Filter{
		Condition: ConditionAnd,
		Rules: []Rule{
			{
				Field:    FieldTargetTemptation,
				Operator: OperatorGreaterOrEqual,
				Value:    threshold,
			},
		},
	}
}

// JSON returns the compact JSON form of the filter.
func (f Filter) JSON() ([]byte, error) {
	data, err := sonic.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal filter: %w", err)
	}
	return data, nil
}

// Encode returns the base64 encoded JSON used as the q parameter.
func (f Filter) Encode() (string, error) {
	data, err := f.JSON()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode reverses Encode.
func Decode(encoded string) (Filter, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Filter{}, fmt.Errorf("decode base64: %w", err)
	}

	var f Filter
	if err := sonic.Unmarshal(data, &f); err != nil {
		return Filter{}, fmt.Errorf("unmarshal filter: %w", err)
	}
	return f, nil
}
