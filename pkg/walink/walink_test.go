package walink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"space becomes %20", "hello world", "hello%20world"},
		{"exclamation stays literal", "Thanks!", "Thanks!"},
		{"url characters", "https://g.page/x", "https%3A%2F%2Fg.page%2Fx"},
		{"unreserved set untouched", "abc-_.~XYZ019", "abc-_.~XYZ019"},
		{"javascript literal set", "!'()*", "!'()*"},
		{"percent is escaped", "100%", "100%25"},
		{"ampersand and equals", "a=b&c", "a%3Db%26c"},
		{"accented text", "avaliação", "avalia%C3%A7%C3%A3o"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeMessage(tt.message))
		})
	}
}

func TestBuildLink(t *testing.T) {
	link := BuildLink("+55 (11) 98765-4321", "hello world")
	assert.Equal(t, "https://wa.me/5511987654321?text=hello%20world", link)
}

func TestBuildReviewLink(t *testing.T) {
	link := BuildReviewLink("5511987654321", "Thanks! {{link_google}}", "https://g.page/x")
	assert.Equal(t, "https://wa.me/5511987654321?text=Thanks!%20https%3A%2F%2Fg.page%2Fx", link)
}

func TestBuildReviewLink_Deterministic(t *testing.T) {
	first := BuildReviewLink("5511987654321", "Avalie: {{link_google}} obrigado", "https://google.com/maps/place/x")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildReviewLink("5511987654321", "Avalie: {{link_google}} obrigado", "https://google.com/maps/place/x"))
	}
}
