package mysql

/*
Настройки, которые могут (а не которые – должны) быть в конфиге для
подключения хранилища:

host = "localhost"
port = "3306"
user = "root"
password = "root"
database = "tracker"
table = "vehicle_state"
*/

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/openfleet/fleettrack/cli/tracker/model"
)

const defaultTable = "vehicle_state"

type Store struct {
	connection *sql.DB
	table      string
	config     map[string]string
}

func (s *Store) Init(cfg map[string]string) error {
	var err error

	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}
	s.config = cfg

	s.table = cfg["table"]
	if s.table == "" {
		s.table = defaultTable
	}

	connStr := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg["user"], cfg["password"], cfg["host"], cfg["port"], cfg["database"])
	if s.connection, err = sql.Open("mysql", connStr); err != nil {
		return fmt.Errorf("ошибка подключения к MySQL: %v", err)
	}

	if err = s.connection.Ping(); err != nil {
		return fmt.Errorf("MySQL недоступен: %v", err)
	}

	createQuery := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		vehicle_id VARCHAR(64) PRIMARY KEY,
		route VARCHAR(255) NOT NULL DEFAULT '',
		lat DOUBLE NOT NULL,
		lng DOUBLE NOT NULL,
		recorded_at DATETIME(6) NOT NULL
	)`, s.table)
	if _, err = s.connection.Exec(createQuery); err != nil {
		return fmt.Errorf("не удалось создать таблицу: %v", err)
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, state *model.VehicleState) (*model.VehicleState, error) {
	upsertQuery := fmt.Sprintf(`INSERT INTO %s (vehicle_id, route, lat, lng, recorded_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		route = VALUES(route), lat = VALUES(lat), lng = VALUES(lng), recorded_at = VALUES(recorded_at)`, s.table)

	if _, err := s.connection.ExecContext(ctx, upsertQuery,
		state.VehicleID, state.Route, state.Lat, state.Lng, state.Timestamp); err != nil {
		return nil, fmt.Errorf("не удалось вставить запись: %v", err)
	}

	stored := *state
	return &stored, nil
}

func (s *Store) GetAll(ctx context.Context) ([]model.VehicleState, error) {
	selectQuery := fmt.Sprintf("SELECT vehicle_id, route, lat, lng, recorded_at FROM %s", s.table)

	rows, err := s.connection.QueryContext(ctx, selectQuery)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать записи: %v", err)
	}
	defer rows.Close()

	var all []model.VehicleState
	for rows.Next() {
		var state model.VehicleState
		if err := rows.Scan(&state.VehicleID, &state.Route, &state.Lat, &state.Lng, &state.Timestamp); err != nil {
			return nil, fmt.Errorf("ошибка чтения записи: %v", err)
		}
		all = append(all, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода записей: %v", err)
	}
	return all, nil
}

func (s *Store) Close() error {
	return s.connection.Close()
}
