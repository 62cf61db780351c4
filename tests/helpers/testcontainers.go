// Helpers for running tests against a real MariaDB via testcontainers.
// Used by tests/integration and by the standalone cmd/testcontainers tool.
// Expects environment variables to be loaded from .env files.

package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/obravista/portalapi/data"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestContainers holds the running database container and its network.
type TestContainers struct {
	Network     *testcontainers.DockerNetwork
	DBContainer testcontainers.Container

	// Host and MappedPort address the database from the test process
	Host       string
	MappedPort string
}

func (tc *TestContainers) Terminate(t *testing.T) {
	ctx := context.Background()
	if tc.DBContainer != nil {
		if err := tc.DBContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate MariaDB: %v", err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// CreateDBTestContainer starts a MariaDB container and initializes the
// portal database and application user. When t is nil (the standalone
// bring-up tool) failures print and exit instead of failing a test.
func CreateDBTestContainer(t *testing.T) (*TestContainers, error) {
	ctx := context.Background()
	testContainers := &TestContainers{}

	dbImage := getEnvDefault("DB_IMAGE", "mariadb:11")
	dbPort := getEnvDefault("DB_PORT", "3306")
	dbNetworkName := getEnvDefault("DB_HOST", "portal-db")
	tcpDbPort, err := nat.NewPort("tcp", dbPort)
	if err != nil {
		exitWithError(t, err, "Failed to create DB port")
	}

	// Create a network
	nw, err := network.New(ctx)
	if err != nil {
		exitWithError(t, err, "Failed to create network")
	}
	testContainers.Network = nw
	networkName := nw.Name

	// Create and start the database container
	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImage,
			ExposedPorts: []string{string(tcpDbPort)},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": getEnvDefault("DB_ROOT_PASSWORD", "root_password"),
				"MYSQL_DATABASE":      getEnvDefault("DB_DATABASE", "portal"),
			},
			WaitingFor: wait.ForListeningPort(tcpDbPort).WithStartupTimeout(60 * time.Second),
			Networks:   []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {dbNetworkName},
			},
		},
		Started: true,
	})
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to start MariaDB")
	}
	testContainers.DBContainer = dbContainer

	host, err := dbContainer.Host(ctx)
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to resolve MariaDB host")
	}
	mappedPort, err := dbContainer.MappedPort(ctx, tcpDbPort)
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to resolve MariaDB port")
	}
	testContainers.Host = host
	testContainers.MappedPort = mappedPort.Port()

	if err := performMariaDBInit(t, testContainers); err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to initialize database")
	}

	logMessage(t, "MariaDB testcontainer started at %s:%s", testContainers.Host, testContainers.MappedPort)
	return testContainers, nil
}

func performMariaDBInit(t *testing.T, tc *TestContainers) error {
	rootPassword := getEnvDefault("DB_ROOT_PASSWORD", "root_password")
	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/", rootPassword, tc.Host, tc.MappedPort))
	if err != nil {
		return err
	}
	defer db.Close()

	// Wait for the connection to be really ready
	for i := 0; i < 30; i++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("MariaDB not ready after 30 seconds: %w", err)
	}

	if err := executeSQL(db, data.InitdbMariaDBAppUser); err != nil {
		return fmt.Errorf("failed to execute app user init sql: %w", err)
	}
	if err := executeSQL(db, data.InitdbMariaDBPrivileges); err != nil {
		return fmt.Errorf("failed to execute privileges init sql: %w", err)
	}

	return nil
}

func executeSQL(db *sql.DB, script string) error {
	lines := strings.Split(script, "\n")

	var stripped []string
	for _, l := range lines {
		if idx := strings.Index(l, "--"); idx >= 0 {
			l = l[:idx]
		}
		stripped = append(stripped, l)
	}

	joined := strings.Join(stripped, " ")
	queries := strings.Split(joined, ";")

	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("%s : when executing > %s", err.Error(), q)
		}
	}
	return nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func logMessage(t *testing.T, format string, args ...interface{}) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}

func exitWithError(t *testing.T, err error, msg string) {
	if t != nil {
		t.Fatalf(msg+": %v", err)
	} else {
		fmt.Printf(msg+": %v\n", err)
		os.Exit(1)
	}
}
