package database

import "fmt"

// CreateTables 建表与索引（幂等）
func (s *PostgresStore) CreateTables() error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) DEFAULT 'user' CHECK (role IN ('admin', 'user')),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS problems (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			title VARCHAR(255) NOT NULL,
			difficulty VARCHAR(20) NOT NULL CHECK (difficulty IN ('Easy', 'Medium', 'Hard')),
			category VARCHAR(100) NOT NULL,
			tags TEXT[] DEFAULT '{}',
			description TEXT NOT NULL,
			explanation TEXT,
			code TEXT,
			test_cases TEXT,
			author_id UUID REFERENCES users(id) ON DELETE SET NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			title VARCHAR(255) NOT NULL,
			category VARCHAR(100) NOT NULL,
			tags TEXT[] DEFAULT '{}',
			description TEXT,
			content TEXT NOT NULL,
			author_id UUID REFERENCES users(id) ON DELETE SET NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS interviews (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			title VARCHAR(255) NOT NULL,
			category VARCHAR(100) NOT NULL,
			tags TEXT[] DEFAULT '{}',
			description TEXT,
			content TEXT NOT NULL,
			author_id UUID REFERENCES users(id) ON DELETE SET NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		// bookmarks.item_id 故意没有外键：收藏允许悬空引用，
		// 展示依赖 cached_title 快照
		`CREATE TABLE IF NOT EXISTS bookmarks (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			item_id UUID NOT NULL,
			item_type VARCHAR(20) NOT NULL CHECK (item_type IN ('problem', 'note', 'interview')),
			cached_title VARCHAR(255) NOT NULL DEFAULT 'Unknown Item',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, item_id, item_type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_problems_category ON problems(category)`,
		`CREATE INDEX IF NOT EXISTS idx_problems_difficulty ON problems(difficulty)`,
		`CREATE INDEX IF NOT EXISTS idx_problems_author ON problems(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_category ON notes(category)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_author ON notes(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_interviews_category ON interviews(category)`,
		`CREATE INDEX IF NOT EXISTS idx_interviews_author ON interviews(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_user_id ON bookmarks(user_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	fmt.Printf("✅ All tables and indexes created successfully\n")
	return nil
}

// 管理员种子账号，与种子内容的作者一致
const seedAdminID = "550e8400-e29b-41d4-a716-446655440000"

// SeedData 插入示例数据（幂等）
func (s *PostgresStore) SeedData() error {
	if _, err := s.db.Exec(`
		INSERT INTO users (id, email, name, password_hash, role)
		VALUES ($1, 'admin@example.com', 'Admin User', 'admin123', 'admin')
		ON CONFLICT (email) DO NOTHING
	`, seedAdminID); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if _, err := s.db.Exec(`
		INSERT INTO problems (title, difficulty, category, tags, description, explanation, author_id)
		VALUES
		('Two Sum', 'Easy', 'Array', ARRAY['array', 'hash-table'],
		 'Given an array of integers nums and an integer target, return indices of the two numbers such that they add up to target.',
		 'Use a hash map to store the complement of each number as you iterate through the array.',
		 $1),
		('Reverse String', 'Easy', 'String', ARRAY['string', 'two-pointers'],
		 'Write a function that reverses a string. The input string is given as an array of characters s.',
		 'Use two pointers, one at the beginning and one at the end, swap characters and move towards the center.',
		 $1)
		ON CONFLICT DO NOTHING
	`, seedAdminID); err != nil {
		return fmt.Errorf("failed to seed problems: %w", err)
	}

	if _, err := s.db.Exec(`
		INSERT INTO notes (title, category, tags, description, content, author_id)
		VALUES
		('JavaScript Closures', 'JavaScript', ARRAY['javascript', 'closures', 'scope'],
		 'Understanding closures in JavaScript',
		 'A closure is a function that has access to variables in its outer scope even after the outer function has returned.',
		 $1),
		('Big O Notation', 'Algorithms', ARRAY['algorithms', 'complexity', 'big-o'],
		 'Understanding time and space complexity',
		 'Big O notation describes the performance or complexity of an algorithm: O(1), O(log n), O(n), O(n log n), O(n^2).',
		 $1)
		ON CONFLICT DO NOTHING
	`, seedAdminID); err != nil {
		return fmt.Errorf("failed to seed notes: %w", err)
	}

	if _, err := s.db.Exec(`
		INSERT INTO interviews (title, category, tags, description, content, author_id)
		VALUES
		('React Hooks Interview Questions', 'React', ARRAY['react', 'hooks', 'interview'],
		 'Common React Hooks interview questions and answers',
		 'React Hooks are functions that let you use state and other React features in functional components.',
		 $1),
		('JavaScript Interview Questions', 'JavaScript', ARRAY['javascript', 'interview', 'fundamentals'],
		 'Essential JavaScript interview questions',
		 'Hoisting is the default behavior of moving declarations to the top of their scope.',
		 $1)
		ON CONFLICT DO NOTHING
	`, seedAdminID); err != nil {
		return fmt.Errorf("failed to seed interviews: %w", err)
	}

	fmt.Printf("🌱 Sample data inserted successfully\n")
	return nil
}
