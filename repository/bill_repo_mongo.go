package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jyotikabilling/models"
)

const (
	billCollection    = "bills"
	counterCollection = "counters"
	billSerialCounter = "bill_serial"
)

type MongoBillRepo struct {
	DB *mongo.Database
}

func NewMongoBillRepo(db *mongo.Database) *MongoBillRepo {
	return &MongoBillRepo{DB: db}
}

// nextSerial bumps the counter document atomically, creating it on first use.
func (r *MongoBillRepo) nextSerial(ctx context.Context) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := r.DB.Collection(counterCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": billSerialCounter},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	return counter.Seq, err
}

func (r *MongoBillRepo) CreateBill(ctx context.Context, bill *models.Bill) error {
	serial, err := r.nextSerial(ctx)
	if err != nil {
		return err
	}

	bill.ID = primitive.NewObjectID().Hex()
	bill.SerialNumber = serial
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = time.Now().UTC()
	}

	_, err = r.DB.Collection(billCollection).InsertOne(ctx, bill)
	return err
}

func (r *MongoBillRepo) ListBills(ctx context.Context) ([]models.Bill, error) {
	cur, err := r.DB.Collection(billCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "serial_number", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	bills := []models.Bill{}
	if err := cur.All(ctx, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *MongoBillRepo) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	var b models.Bill
	err := r.DB.Collection(billCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *MongoBillRepo) GetBillsByIDs(ctx context.Context, ids []string) ([]models.Bill, error) {
	if len(ids) == 0 {
		return []models.Bill{}, nil
	}
	cur, err := r.DB.Collection(billCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var bills []models.Bill
	if err := cur.All(ctx, &bills); err != nil {
		return nil, err
	}
	return orderByIDs(bills, ids), nil
}

func (r *MongoBillRepo) UpdateBill(ctx context.Context, bill *models.Bill) error {
	now := time.Now().UTC()
	var updated models.Bill
	err := r.DB.Collection(billCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": bill.ID},
		bson.M{"$set": bson.M{
			"patient_name":  bill.PatientName,
			"guardian_name": bill.GuardianName,
			"phone":         bill.Phone,
			"address":       bill.Address,
			"bill_date":     bill.BillDate,
			"charge_type":   bill.ChargeType,
			"status":        bill.Status,
			"amount":        bill.Amount,
			"updated_at":    now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	*bill = updated
	return nil
}

func (r *MongoBillRepo) DeleteBill(ctx context.Context, id string) error {
	res, err := r.DB.Collection(billCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoBillRepo) UpdatePDFInfo(ctx context.Context, id string, path string, createdAt time.Time) error {
	_, err := r.DB.Collection(billCollection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"pdf_path": path, "pdf_created_at": createdAt}},
	)
	return err
}
