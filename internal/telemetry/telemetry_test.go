package telemetry

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), LogFile)
	s, err := CreateCSV(path)
	require.NoError(t, err)

	require.NoError(t, s.Write(Record{Step: 1, Hour: 0, Minute: 10, ZoneTemp: 22, PowerW: 1300, Action: ActionHeating, Forecast: 14.25}))
	require.NoError(t, s.Write(Record{Step: 2, Hour: 0, Minute: 20, ZoneTemp: 21.94, Action: ActionIdle, Forecast: math.NaN()}))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"step,hour,minute,zone_air_temperature_c,power_level_w,action,forecast_drybulb_c\n"+
			"1,0,10,22.00,1300.00,HEATING,14.25\n"+
			"2,0,20,21.94,0.00,IDLE,\n",
		string(data))
}

func TestActionFromPower(t *testing.T) {
	assert.Equal(t, ActionHeating, ActionFromPowerW(1300))
	assert.Equal(t, ActionIdle, ActionFromPowerW(0))
}

func TestRecordJSON(t *testing.T) {
	b, err := json.Marshal(Record{Step: 3, ZoneTemp: 20.5, Action: ActionIdle, Forecast: math.NaN()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"step":3,"hour":0,"minute":0,"zone_air_temperature_c":20.5,"power_level_w":0,"action":"IDLE"}`, string(b))

	b, err = json.Marshal(Record{RunID: "r1", Step: 1, Forecast: 12})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"forecast_drybulb_c":12`)
	assert.Contains(t, string(b), `"run_id":"r1"`)
}

type failSink struct{ closed bool }

func (f *failSink) Write(Record) error { return errors.New("boom") }

func (f *failSink) Close() error {
	f.closed = true
	return errors.New("close boom")
}

func TestMultiClosesEverySink(t *testing.T) {
	mem := &Memory{}
	bad := &failSink{}
	m := Multi{mem, bad}

	assert.ErrorContains(t, m.Write(Record{Step: 1}), "boom")
	assert.Len(t, mem.Records, 1)

	assert.ErrorContains(t, m.Close(), "close boom")
	assert.True(t, mem.Closed)
	assert.True(t, bad.closed)
}

type fakeClient struct {
	mqtt.Client
	topic        string
	qos          byte
	payloads     [][]byte
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.topic, c.qos = topic, qos
	c.payloads = append(c.payloads, payload.([]byte))
	return nil
}

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

func TestMQTTSink(t *testing.T) {
	c := &fakeClient{}
	s := newMQTTSink(c, "greenhouse/run", "abc")
	require.NoError(t, s.Write(Record{Step: 7, ZoneTemp: 23, PowerW: 1300, Action: ActionHeating, Forecast: math.NaN()}))
	require.NoError(t, s.Close())

	assert.Equal(t, "greenhouse/run", c.topic)
	assert.Equal(t, byte(0), c.qos)
	require.Len(t, c.payloads, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal(c.payloads[0], &got))
	assert.Equal(t, "abc", got["run_id"])
	assert.Equal(t, 7.0, got["step"])
	assert.True(t, c.disconnected)
}

func TestConfigsEnabled(t *testing.T) {
	assert.False(t, KafkaConfig{Topic: "t"}.Enabled())
	assert.True(t, KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t"}.Enabled())
	assert.False(t, MQTTConfig{Broker: "tcp://localhost:1883"}.Enabled())
}
