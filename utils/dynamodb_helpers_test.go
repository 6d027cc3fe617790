package utils

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

func TestBuildSetExpression(t *testing.T) {
	req := require.New(t)

	expr, names, values := BuildSetExpression(map[string]string{
		"name":  "Ada",
		"bio":   "",
		"major": "Math",
	})

	req.Equal("SET #bio = :bio, #major = :major, #name = :name", expr)
	req.Equal(map[string]string{"#bio": "bio", "#major": "major", "#name": "name"}, names)
	req.Len(values, 3)
	req.Equal(&types.AttributeValueMemberS{Value: "Ada"}, values[":name"])
	req.Equal(&types.AttributeValueMemberS{Value: ""}, values[":bio"])
}
