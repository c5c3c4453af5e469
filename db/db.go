package db

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/midicritic/constants"
	"github.com/jsphweid/midicritic/model"
	"github.com/pkg/errors"
)

// DynamoDB caps BatchGetItem at 100 keys.
const MaxBatchGet = 100

type record struct {
	PK          string
	FileName    string
	FileSize    int64
	Instruments []string
	Summary     model.Summary
	Feedback    string
	CreatedAt   time.Time
}

func toRecord(a model.Analysis) record {
	return record{
		PK:          a.Id,
		FileName:    a.FileName,
		FileSize:    a.FileSize,
		Instruments: a.Instruments,
		Summary:     a.Summary,
		Feedback:    a.Feedback,
		CreatedAt:   a.CreatedAt,
	}
}

func (r record) analysis() model.Analysis {
	return model.Analysis{
		Id:          r.PK,
		FileName:    r.FileName,
		FileSize:    r.FileSize,
		Instruments: r.Instruments,
		Summary:     r.Summary,
		Feedback:    r.Feedback,
		CreatedAt:   r.CreatedAt,
	}
}

type Store struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewStore(client dynamodbiface.DynamoDBAPI, table string) *Store {
	return &Store{client: client, table: table}
}

func NewStoreFromEnv() (*Store, error) {
	config := &aws.Config{Region: aws.String(constants.GetDynamoRegion())}
	if endpoint := constants.GetDynamoEndpoint(); endpoint != "" {
		config.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(config)
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return NewStore(dynamodb.New(sess), constants.GetDynamoTable()), nil
}

func (s *Store) PutAnalysis(ctx context.Context, a model.Analysis) error {
	item, err := dynamodbattribute.MarshalMap(toRecord(a))
	if err != nil {
		return errors.Wrap(err, "could not marshal analysis")
	}
	_, err = s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	return errors.Wrapf(err, "could not put analysis %s", a.Id)
}

// GetAnalyses returns the stored analyses keyed by id. Unknown ids are
// simply absent from the result.
func (s *Store) GetAnalyses(ctx context.Context, ids []string) (map[string]model.Analysis, error) {
	if len(ids) > MaxBatchGet {
		return nil, errors.Errorf("at most %d ids per lookup, got %d", MaxBatchGet, len(ids))
	}

	res := make(map[string]model.Analysis)
	if len(ids) == 0 {
		return res, nil
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, id := range ids {
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		})
	}

	out, err := s.client.BatchGetItemWithContext(ctx, &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			s.table: {Keys: keys},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "error from DynamoDB")
	}

	for _, item := range out.Responses[s.table] {
		var r record
		if err := dynamodbattribute.UnmarshalMap(item, &r); err != nil {
			return nil, errors.Wrap(err, "could not unmarshal analysis")
		}
		res[r.PK] = r.analysis()
	}
	return res, nil
}
