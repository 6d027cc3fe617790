package utils

import (
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// BuildSetExpression builds a "SET #a = :a, ..." update expression for string fields.
// Fields are emitted in sorted order so the expression is stable.
func BuildSetExpression(fields map[string]string) (string, map[string]string, map[string]types.AttributeValue) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := make(map[string]string, len(fields))
	values := make(map[string]types.AttributeValue, len(fields))
	clauses := make([]string, 0, len(fields))
	for _, k := range keys {
		names["#"+k] = k
		values[":"+k] = &types.AttributeValueMemberS{Value: fields[k]}
		clauses = append(clauses, "#"+k+" = :"+k)
	}
	return "SET " + strings.Join(clauses, ", "), names, values
}
