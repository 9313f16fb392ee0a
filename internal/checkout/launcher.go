package checkout

import (
	"context"
	"strings"

	"github.com/coronelbarros/storefront/pkg/enums"
	pkgerrors "github.com/coronelbarros/storefront/pkg/errors"
)

// Launcher opens the messaging app on the buyer's side. Implementations that
// cannot observe the app report HandoffAttempted; only a launcher that gets
// an acknowledgement may report HandoffConfirmed.
type Launcher interface {
	Launch(ctx context.Context, link string) (enums.HandoffStatus, error)
}

// ClientLauncher hands the link back to the HTTP client, which performs the
// navigation. The server never learns whether the app opened.
type ClientLauncher struct{}

func (ClientLauncher) Launch(ctx context.Context, link string) (enums.HandoffStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.HasPrefix(link, "https://") {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "messaging link is not an https url")
	}
	return enums.HandoffAttempted, nil
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context, link string) (enums.HandoffStatus, error)

func (f LauncherFunc) Launch(ctx context.Context, link string) (enums.HandoffStatus, error) {
	return f(ctx, link)
}
