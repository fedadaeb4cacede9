package s3

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/veclake/veclake/blobstore"
	"github.com/veclake/veclake/resource"
)

// ErrConcurrentCommit is returned when another writer committed the same
// version first.
var ErrConcurrentCommit = errors.New("s3: concurrent manifest commit detected")

// DDBClient is the subset of the DynamoDB API the commit store uses.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// CommitStore publishes staged manifests. The manifest body lives in S3;
// the pointer to the current version is advanced through a DynamoDB
// conditional write, which gives the compare-and-swap semantics S3 lacks
// and makes concurrent publishers safe.
//
// Table schema: partition key base_uri (S), sort key version (N).
type CommitStore struct {
	store     blobstore.ObjectStore
	ddb       DDBClient
	tableName string
	baseURI   string
}

// NewCommitStore creates a commit store over an object store (usually an
// s3.Store). baseURI identifies the index root (e.g.
// "s3://bucket/files/index_files/42") and is the DynamoDB partition key.
func NewCommitStore(store blobstore.ObjectStore, ddb DDBClient, tableName, baseURI string) *CommitStore {
	return &CommitStore{
		store:     store,
		ddb:       ddb,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

// Commit writes manifest (remote path -> byte size) as the next version.
// Returns the committed version, or ErrConcurrentCommit if another writer
// took it first.
func (c *CommitStore) Commit(ctx context.Context, manifest map[string]int64) (int64, error) {
	latest, _, err := c.Latest(ctx)
	if err != nil {
		return 0, err
	}
	version := latest + 1

	body, err := json.Marshal(manifest)
	if err != nil {
		return 0, err
	}

	manifestKey := fmt.Sprintf("manifests/MANIFEST-%06d.json", version)
	if _, err := c.store.Put(ctx, []string{manifestKey}, [][]byte{body}); err != nil {
		return 0, err
	}

	_, err = c.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item: map[string]ddbtypes.AttributeValue{
			"base_uri": &ddbtypes.AttributeValueMemberS{Value: c.baseURI},
			"version":  &ddbtypes.AttributeValueMemberN{Value: strconv.FormatInt(version, 10)},
			"manifest": &ddbtypes.AttributeValueMemberS{Value: manifestKey},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var cfe *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return 0, ErrConcurrentCommit
		}
		return 0, err
	}
	return version, nil
}

// Latest returns the newest committed version and its S3 manifest key.
// Version 0 with an empty key means nothing has been committed.
func (c *CommitStore) Latest(ctx context.Context) (int64, string, error) {
	out, err := c.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("base_uri = :u"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":u": &ddbtypes.AttributeValueMemberS{Value: c.baseURI},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", err
	}
	if len(out.Items) == 0 {
		return 0, "", nil
	}

	item := out.Items[0]
	vAttr, ok := item["version"].(*ddbtypes.AttributeValueMemberN)
	if !ok {
		return 0, "", fmt.Errorf("s3: commit record missing version attribute")
	}
	version, err := strconv.ParseInt(vAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("s3: bad commit version %q: %w", vAttr.Value, err)
	}

	var key string
	if mAttr, ok := item["manifest"].(*ddbtypes.AttributeValueMemberS); ok {
		key = mAttr.Value
	}
	return version, key, nil
}

// LoadManifest fetches and decodes the manifest body for a committed version.
func (c *CommitStore) LoadManifest(ctx context.Context, manifestKey string) (map[string]int64, error) {
	payloads, err := c.store.Get(ctx, []string{manifestKey}, resource.PriorityHigh)
	if err != nil {
		return nil, err
	}

	var manifest map[string]int64
	if err := json.Unmarshal(payloads[0], &manifest); err != nil {
		return nil, fmt.Errorf("s3: decode manifest %s: %w", manifestKey, err)
	}
	return manifest, nil
}
