package speed

import (
	"net"

	"github.com/indigo-web/speed/config"
	"github.com/indigo-web/speed/internal/server/tcp"
	"golang.org/x/net/netutil"
)

func newClient(netCfg config.NET, conn net.Conn) tcp.Client {
	readBuff := make([]byte, netCfg.ReadBufferSize)

	return tcp.NewClient(conn, netCfg.ReadTimeout, netCfg.WriteTimeout, readBuff)
}

// limitListener bounds the number of simultaneously served connections. The listener
// stops accepting once the limit is hit and continues when some connection is closed.
func limitListener(sock net.Listener, mode Mode, serverCfg config.Server) net.Listener {
	if mode != MultiThread || serverCfg.MaxWorkers <= 0 {
		return sock
	}

	return netutil.LimitListener(sock, serverCfg.MaxWorkers)
}
