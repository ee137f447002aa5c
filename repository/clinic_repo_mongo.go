package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jyotikabilling/models"
)

// the profile is a singleton document
const clinicProfileID = "clinic"

type MongoClinicRepo struct {
	DB *mongo.Database
}

func NewMongoClinicRepo(db *mongo.Database) *MongoClinicRepo {
	return &MongoClinicRepo{DB: db}
}

func (r *MongoClinicRepo) SaveClinic(ctx context.Context, clinic *models.ClinicProfile) error {
	if clinic.CreatedAt.IsZero() {
		clinic.CreatedAt = time.Now().UTC()
	}
	clinic.ID = clinicProfileID

	_, err := r.DB.Collection("clinic_profile").ReplaceOne(ctx,
		bson.M{"_id": clinicProfileID}, clinic, options.Replace().SetUpsert(true))
	return err
}

func (r *MongoClinicRepo) GetClinic(ctx context.Context) (*models.ClinicProfile, error) {
	var clinic models.ClinicProfile
	err := r.DB.Collection("clinic_profile").FindOne(ctx, bson.M{"_id": clinicProfileID}).Decode(&clinic)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &clinic, nil
}
