package audio

import (
	"context"
	"reflect"
	"testing"

	pulseproto "github.com/jfreymuth/pulse/proto"
	"github.com/stretchr/testify/require"
)

func TestChoose(t *testing.T) {
	mic := Device{ID: "alsa_input.usb-rode", Description: "Rode NT-USB", Available: true, Default: true}
	headset := Device{ID: "bluez_input.headset", Description: "Jabra Evolve", Available: true}
	mutedMic := mic
	mutedMic.Muted = true
	mutedHeadset := headset
	mutedHeadset.Muted = true

	tests := []struct {
		name     string
		devices  []Device
		input    string
		fallback string
		want     string
		fellBack bool
		err      string
	}{
		{name: "default", devices: []Device{mic, headset}, input: "default", fallback: "default", want: mic.ID},
		{name: "by description", devices: []Device{mic, headset}, input: "jabra", want: headset.ID},
		{name: "muted uses fallback", devices: []Device{mutedMic, headset}, input: "rode", fallback: "jabra", want: headset.ID, fellBack: true},
		{name: "muted default has no way out", devices: []Device{mutedMic}, input: "default", fallback: "default", err: "muted"},
		{name: "fallback muted", devices: []Device{mutedMic, mutedHeadset}, input: "rode", fallback: "jabra", err: "muted"},
		{name: "unknown input", devices: []Device{mic}, input: "missing", err: "did not match"},
		{name: "no devices", err: "no audio input devices"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sel, err := Choose(tc.devices, tc.input, tc.fallback)
			if tc.err != "" {
				require.ErrorContains(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, sel.Device.ID)
			require.Equal(t, tc.fellBack, sel.Fallback)
			if tc.fellBack {
				require.Contains(t, sel.Warning, "falling back")
			}
		})
	}
}

func TestListDevicesFailsWhenPulseUnavailable(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")
	_, err := ListDevices(context.Background())
	require.Error(t, err)

	_, err = SelectDevice(context.Background(), "default", "default")
	require.Error(t, err)
}

func TestStateName(t *testing.T) {
	require.Equal(t, "running", stateName(0))
	require.Equal(t, "suspended", stateName(2))
	require.Equal(t, "unknown(7)", stateName(7))
}

func TestPortAvailable(t *testing.T) {
	require.False(t, portAvailable(nil))
	require.True(t, portAvailable(&pulseproto.GetSourceInfoReply{}))

	yes := &pulseproto.GetSourceInfoReply{ActivePortName: "mic"}
	setPorts(t, yes, map[string]uint32{"mic": 2})
	require.True(t, portAvailable(yes))

	no := &pulseproto.GetSourceInfoReply{ActivePortName: "mic"}
	setPorts(t, no, map[string]uint32{"mic": 1})
	require.False(t, portAvailable(no))
}

// setPorts fills reply.Ports through reflection to avoid spelling out the
// port struct.
func setPorts(t *testing.T, reply *pulseproto.GetSourceInfoReply, ports map[string]uint32) {
	t.Helper()

	slice := reflect.MakeSlice(reflect.TypeOf(reply.Ports), 0, len(ports))
	elem := reflect.TypeOf(reply.Ports).Elem()
	for name, avail := range ports {
		item := reflect.New(elem).Elem()
		item.FieldByName("Name").SetString(name)
		item.FieldByName("Available").SetUint(uint64(avail))
		slice = reflect.Append(slice, item)
	}
	reflect.ValueOf(reply).Elem().FieldByName("Ports").Set(slice)
}
