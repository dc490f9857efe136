package models

import "context"

type Supplier struct {
	Row         int    `json:"-"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Notes       string `json:"notes"`
}

func (s *Store) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	data, err := s.sheets.ReadSheet(ctx, SuppliersSchema.Name)
	if err != nil {
		return nil, err
	}
	records := SuppliersSchema.MapRows(data, s.logger)
	suppliers := make([]*Supplier, 0, len(records))
	for _, rec := range records {
		suppliers = append(suppliers, &Supplier{
			Row:         rec.Row,
			Name:        rec.String("name"),
			ContactName: rec.String("contact_name"),
			Phone:       rec.String("phone"),
			Email:       rec.String("email"),
			Notes:       rec.String("notes"),
		})
	}
	return suppliers, nil
}
