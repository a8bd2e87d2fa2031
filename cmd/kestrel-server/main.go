// Command kestrel-server exposes a Version Engine over the netsvc TCP protocol.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kestrelvcs/kestrel"
	"github.com/kestrelvcs/kestrel/core"
	"github.com/kestrelvcs/kestrel/netsvc"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	port := flag.Int("port", 4717, "TCP port to listen on")
	root := flag.String("root", "/repo", "Working-tree root for the engine")
	jwtSecret := flag.String("jwt-secret", "", "HS256 secret; enables JWT authentication when set")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("kestrel-server v%s\n", Version)
		return
	}

	engine := kestrel.Open(*root)

	var server *netsvc.Server
	if *jwtSecret != "" {
		server = netsvc.NewServerWithAuth(engine, &netsvc.AuthConfig{
			Enabled:   true,
			JWTSecret: *jwtSecret,
		})
	} else {
		identity := core.Identity{Name: "kestrel-server", Email: "server@kestrelvcs.local"}
		server = netsvc.NewServer(engine, identity)
	}

	addr := fmt.Sprintf(":%d", *port)
	if err := server.Start(addr); err != nil {
		log.Fatalf("kestrel-server: %v", err)
	}

	fmt.Printf("kestrel-server v%s listening on port %d\n", Version, *port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("kestrel-server: shutting down")
	server.Stop()
	log.Println("kestrel-server: stopped")
}
