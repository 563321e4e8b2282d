package probe

import (
	"context"
	"net"
)

// defaultLookupHost resolves host using the system-default resolver
// configuration, as §4.2's DNS probe requires.
func defaultLookupHost(ctx context.Context, host string) ([]string, error) {
	return net.DefaultResolver.LookupHost(ctx, host)
}
