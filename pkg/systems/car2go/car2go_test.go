package car2go

import (
	"testing"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
	"placemarks": [
		{
			"vin": "WME4533421K767942",
			"name": "B-GO1234",
			"address": "Robson St 800, Vancouver",
			"coordinates": [-123.12103, 49.28307, 0],
			"fuel": 68,
			"engineType": "ED",
			"exterior": "GOOD",
			"interior": "GOOD"
		}
	]
}`

func TestVehicleList(t *testing.T) {
	records, err := System{}.VehicleList([]byte(samplePayload))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestBasicsSwapsCoordinateOrder(t *testing.T) {
	records, err := System{}.VehicleList([]byte(samplePayload))
	require.NoError(t, err)

	vin, position, err := System{}.Basics(records[0])
	require.NoError(t, err)

	assert.Equal(t, "WME4533421K767942", vin)
	assert.Equal(t, 49.28307, position.Lat, "payload coordinates are lng,lat")
	assert.Equal(t, -123.12103, position.Lng)
}

func TestVehicle(t *testing.T) {
	records, err := System{}.VehicleList([]byte(samplePayload))
	require.NoError(t, err)

	record, err := System{}.Vehicle(records[0])
	require.NoError(t, err)

	assert.Equal(t, 68.0, record["fuel"])
	assert.Equal(t, "ED", record["engine_type"])
	assert.Equal(t, "B-GO1234", record["name"])
	assert.Equal(t, "Robson St 800, Vancouver", record["address"])
}

func TestBasicsRejectsMissingCoordinates(t *testing.T) {
	_, _, err := System{}.Basics([]byte(`{"vin": "X", "coordinates": []}`))
	assert.Error(t, err)
}

func TestRenderPayloadRoundTrip(t *testing.T) {
	vehicles := []*fleet.VehicleSnapshot{
		{
			VIN:      "WME4533421K767942",
			Position: fleet.Coordinate{Lat: 49.28307, Lng: -123.12103},
			Fuel:     68,
			Attributes: map[string]any{
				"engine_type": "ED",
				"exterior":    "GOOD",
				"interior":    "UNACCEPTABLE",
			},
		},
	}

	payload, err := System{}.RenderPayload(vehicles)
	require.NoError(t, err)

	records, err := System{}.VehicleList(payload)
	require.NoError(t, err)
	require.Len(t, records, 1)

	vin, position, err := System{}.Basics(records[0])
	require.NoError(t, err)
	assert.Equal(t, "WME4533421K767942", vin)
	assert.True(t, position.Equal(vehicles[0].Position))

	record, err := System{}.Vehicle(records[0])
	require.NoError(t, err)
	assert.Equal(t, "UNACCEPTABLE", record["interior"])
	assert.Equal(t, "", record["name"], "identity attributes are not regenerated")
}
