package database

import (
    "context"
    "database/sql"
)

// EnsureSchema creates all tables the application needs when they do
// not exist yet.  Statements run in dependency order so foreign keys
// always reference existing tables.
//
// The two uniqueness constraints that matter for correctness:
//   seat_claims (showtime_id, seat_id) – one confirmed owner per seat,
//   seat_holds  (showtime_id, seat_id) – one advisory hold per seat.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
    stmts := []string{
        `CREATE TABLE IF NOT EXISTS users (
            id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
            email VARCHAR(255) NOT NULL,
            password_hash VARCHAR(255) NOT NULL,
            role VARCHAR(16) NOT NULL DEFAULT 'CUSTOMER',
            is_active TINYINT(1) NOT NULL DEFAULT 1,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
            UNIQUE KEY uq_users_email (email)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS refresh_tokens (
            id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
            user_id BIGINT UNSIGNED NOT NULL,
            token_hash CHAR(64) NOT NULL,
            expires_at DATETIME NOT NULL,
            revoked_at DATETIME NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            UNIQUE KEY uq_refresh_tokens_hash (token_hash),
            KEY idx_refresh_tokens_user (user_id),
            CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS movies (
            id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
            title VARCHAR(255) NOT NULL,
            description TEXT NOT NULL,
            poster_url VARCHAR(512) NULL,
            duration_min INT UNSIGNED NOT NULL,
            genre VARCHAR(64) NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS halls (
            id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            location VARCHAR(255) NOT NULL DEFAULT '',
            width_m DOUBLE NULL,
            depth_m DOUBLE NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS hall_blocks (
            id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
            hall_id BIGINT UNSIGNED NOT NULL,
            position INT UNSIGNED NOT NULL,
            name VARCHAR(64) NOT NULL,
            row_count INT UNSIGNED NOT NULL,
            seats_per_row INT UNSIGNED NOT NULL,
            UNIQUE KEY uq_hall_blocks_name (hall_id, name),
            CONSTRAINT fk_hall_blocks_hall FOREIGN KEY (hall_id) REFERENCES halls(id) ON DELETE CASCADE
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS hall_boxes (
            id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
            hall_id BIGINT UNSIGNED NOT NULL,
            position INT UNSIGNED NOT NULL,
            name VARCHAR(64) NOT NULL,
            capacity INT UNSIGNED NOT NULL,
            UNIQUE KEY uq_hall_boxes_name (hall_id, name),
            CONSTRAINT fk_hall_boxes_hall FOREIGN KEY (hall_id) REFERENCES halls(id) ON DELETE CASCADE
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS hall_prices (
            hall_id BIGINT UNSIGNED NOT NULL,
            seat_class VARCHAR(16) NOT NULL,
            price_cents INT UNSIGNED NOT NULL,
            PRIMARY KEY (hall_id, seat_class),
            CONSTRAINT fk_hall_prices_hall FOREIGN KEY (hall_id) REFERENCES halls(id) ON DELETE CASCADE
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS showtimes (
            id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
            movie_id BIGINT UNSIGNED NOT NULL,
            hall_id BIGINT UNSIGNED NOT NULL,
            starts_at DATETIME NOT NULL,
            ends_at DATETIME NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
            KEY idx_showtimes_movie (movie_id),
            KEY idx_showtimes_hall (hall_id, starts_at),
            CONSTRAINT fk_showtimes_movie FOREIGN KEY (movie_id) REFERENCES movies(id),
            CONSTRAINT fk_showtimes_hall FOREIGN KEY (hall_id) REFERENCES halls(id)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS bookings (
            id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
            user_id BIGINT UNSIGNED NOT NULL,
            showtime_id BIGINT UNSIGNED NOT NULL,
            status VARCHAR(16) NOT NULL,
            total_cents INT UNSIGNED NOT NULL,
            ticket VARCHAR(255) NULL,
            checked_in_at DATETIME NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
            KEY idx_bookings_user (user_id),
            KEY idx_bookings_showtime (showtime_id),
            CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
            CONSTRAINT fk_bookings_showtime FOREIGN KEY (showtime_id) REFERENCES showtimes(id)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS booking_seats (
            booking_id BIGINT UNSIGNED NOT NULL,
            seat_id VARCHAR(64) NOT NULL,
            price_cents INT UNSIGNED NOT NULL,
            PRIMARY KEY (booking_id, seat_id),
            CONSTRAINT fk_booking_seats_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS seat_claims (
            id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
            showtime_id BIGINT UNSIGNED NOT NULL,
            seat_id VARCHAR(64) NOT NULL,
            booking_id BIGINT UNSIGNED NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            UNIQUE KEY uq_seat_claims_seat (showtime_id, seat_id),
            KEY idx_seat_claims_booking (booking_id),
            CONSTRAINT fk_seat_claims_showtime FOREIGN KEY (showtime_id) REFERENCES showtimes(id),
            CONSTRAINT fk_seat_claims_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

        `CREATE TABLE IF NOT EXISTS seat_holds (
            id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
            user_id BIGINT UNSIGNED NOT NULL,
            showtime_id BIGINT UNSIGNED NOT NULL,
            seat_id VARCHAR(64) NOT NULL,
            expires_at DATETIME NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            UNIQUE KEY uq_seat_holds_seat (showtime_id, seat_id),
            KEY idx_seat_holds_user (user_id, showtime_id),
            CONSTRAINT fk_seat_holds_showtime FOREIGN KEY (showtime_id) REFERENCES showtimes(id),
            CONSTRAINT fk_seat_holds_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
    }
    for _, stmt := range stmts {
        if _, err := db.ExecContext(ctx, stmt); err != nil {
            return err
        }
    }
    return nil
}
