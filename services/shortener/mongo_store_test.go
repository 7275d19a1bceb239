package shortener

import (
	"context"
	"io"
	"log"
	"testing"
	devenv "toolbox-backend/dev/env"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func mongoUri(t *testing.T) (string, string, func()) {
	config, err := devenv.GetStateConfig[devenv.MongoTestConfig]("mongo_test.json5")
	if err == nil && config.Uri != "" {
		return config.Uri, config.Database, func() {}
	}

	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(
		ctx,
		testcontainers.GenericContainerRequest{
			Started: true,
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "mongo:7",
				ExposedPorts: []string{"27017/tcp"},
				WaitingFor:   wait.ForLog("Waiting for connections"),
			},
		},
	)
	if err != nil {
		t.Skipf("mongo container unavailable, write dev/.state/mongo_test.json5 to use an existing deployment: %s", err)
	}

	endpoint, err := container.PortEndpoint(ctx, "27017/tcp", "mongodb")
	if err != nil {
		container.Terminate(ctx)
		t.Fatal(err)
	}
	return endpoint, "shortener_test", func() {
		err := container.Terminate(context.Background())
		if err != nil {
			t.Log(err)
		}
	}
}

func TestMongoStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mongo store in short mode")
	}

	uri, database, terminate := mongoUri(t)
	defer terminate()

	store, err := NewMongoStore(context.Background(), uri, database)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, err = store.collection.DeleteMany(context.Background(), map[string]any{})
	if err != nil {
		t.Fatal(err)
	}

	testStore(t, store)
}
