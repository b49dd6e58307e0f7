//go:build linux

package notify

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDBusNotifier_ReplaceAndClose(t *testing.T) {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
		t.Skip("no D-Bus session available")
	}

	notifier, err := New(nil)
	require.NoError(t, err)

	id1, err := notifier.Notify(Notification{Title: "Track 1", Body: "Artist - Album", Timeout: 2000})
	require.NoError(t, err)
	require.NotZero(t, id1)

	id2, err := notifier.Notify(Notification{Title: "Track 2", Timeout: 1000, ReplacesID: id1})
	require.NoError(t, err)
	require.Equal(t, id1, id2)

	require.NoError(t, notifier.Close(id2))
}
