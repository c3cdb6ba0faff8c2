package repomanager

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func TestOpenMongo_ConnectError(t *testing.T) {
	orig := mongoConnect
	t.Cleanup(func() { mongoConnect = orig })

	var gotURI string
	mongoConnect = func(opts ...*options.ClientOptions) (*mongo.Client, error) {
		require.Len(t, opts, 1)
		gotURI = opts[0].GetURI()
		return nil, errors.New("no reachable servers")
	}

	_, err := OpenMongo(context.Background(), "mongodb://db:27017", "supportdesk")
	require.ErrorContains(t, err, "no reachable servers")
	require.Equal(t, "mongodb://db:27017", gotURI)
}
