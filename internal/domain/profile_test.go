package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: TimeOfDay{Hour: 9}},
		{in: "18:45:00", want: TimeOfDay{Hour: 18, Minute: 45}},
		{in: " 7:05 ", want: TimeOfDay{Hour: 7, Minute: 5}},
		{in: "23:59", want: TimeOfDay{Hour: 23, Minute: 59}},
		{in: "07:30:59", want: TimeOfDay{Hour: 7, Minute: 30}},
		{in: "24:00", wantErr: true},
		{in: "09:00:zz", wantErr: true},
		{in: "09:00:60", wantErr: true},
		{in: "09:00:", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "12", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDay_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "09:05", TimeOfDay{Hour: 9, Minute: 5}.String())
}

func TestParseFont(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FontBookerly, ParseFont("Bookerly"))
	assert.Equal(t, FontSansSerif, ParseFont(" sans-serif "))
	assert.Equal(t, FontSerif, ParseFont("comic-sans"))
	assert.Equal(t, FontSerif, ParseFont(""))
}

func TestDeliveryProfile_IsSchedulable(t *testing.T) {
	t.Parallel()

	complete := func() DeliveryProfile {
		return DeliveryProfile{
			UserID:         "user-1",
			KindleEmail:    "reader@kindle.com",
			SenderEmail:    "sender@example.com",
			SenderPassword: "pw",
			DeliveryDays:   []string{"mon"},
			DeliveryTime:   &TimeOfDay{Hour: 9},
		}
	}

	assert.True(t, complete().IsSchedulable())

	tests := map[string]func(p *DeliveryProfile){
		"no days":     func(p *DeliveryProfile) { p.DeliveryDays = nil },
		"no time":     func(p *DeliveryProfile) { p.DeliveryTime = nil },
		"no kindle":   func(p *DeliveryProfile) { p.KindleEmail = "" },
		"no sender":   func(p *DeliveryProfile) { p.SenderEmail = "" },
		"no password": func(p *DeliveryProfile) { p.SenderPassword = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			p := complete()
			mutate(&p)
			assert.False(t, p.IsSchedulable())
		})
	}
}

func TestDeliveryProfile_EffectiveMinArticleCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, DeliveryProfile{}.EffectiveMinArticleCount())
	assert.Equal(t, 1, DeliveryProfile{MinArticleCount: -3}.EffectiveMinArticleCount())
	assert.Equal(t, 5, DeliveryProfile{MinArticleCount: 5}.EffectiveMinArticleCount())
}
