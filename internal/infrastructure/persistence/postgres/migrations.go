// Package postgres implements the PostgreSQL persistence layer for the
// campus placement portal.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE USERS AND STUDENT PROFILES
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users and student_details tables
-- Version: 001

-- Login accounts. Students and admins share the table; the role column
-- gates admin routes.
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(255) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'student',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_role CHECK (role IN ('student', 'admin'))
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

-- Placement profiles. One per student account; college_reg_no also keys
-- the resume object in storage.
CREATE TABLE IF NOT EXISTS student_details (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    first_name VARCHAR(100) NOT NULL,
    gender VARCHAR(20) NOT NULL DEFAULT '',
    college_reg_no VARCHAR(30) NOT NULL UNIQUE,
    date_of_birth VARCHAR(20) NOT NULL DEFAULT '',
    college_email VARCHAR(255) NOT NULL,
    personal_email VARCHAR(255) NOT NULL DEFAULT '',
    mobile_number VARCHAR(20) NOT NULL DEFAULT '',
    is_pwd BOOLEAN NOT NULL DEFAULT FALSE,
    branch VARCHAR(20) NOT NULL,
    ug_percentage DECIMAL(5,2) NOT NULL,
    has_active_backlogs BOOLEAN NOT NULL DEFAULT FALSE,
    resume_url TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_branch CHECK (branch IN (
        'CSE', 'ISE', 'MC', 'AIML', 'Aerospace', 'Automotive',
        'EEE', 'ECE', 'Civil', 'Mechanical', 'Robotics'
    )),
    CONSTRAINT valid_ug_percentage CHECK (ug_percentage >= 0 AND ug_percentage <= 100)
);

CREATE INDEX IF NOT EXISTS idx_student_details_user_id ON student_details(user_id);
CREATE INDEX IF NOT EXISTS idx_student_details_reg_no ON student_details(college_reg_no);
CREATE INDEX IF NOT EXISTS idx_student_details_branch ON student_details(branch);
`

const migration001Down = `
DROP TABLE IF EXISTS student_details;
DROP TABLE IF EXISTS users;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE JOBS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create jobs table
-- Version: 002

-- Job postings. min_ug_percentage NULL means no percentage constraint;
-- an empty eligible_branches array means every branch may apply.
CREATE TABLE IF NOT EXISTS jobs (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title VARCHAR(200) NOT NULL,
    company VARCHAR(200) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    location VARCHAR(200) NOT NULL DEFAULT '',
    package_range VARCHAR(100) NOT NULL DEFAULT '',
    min_ug_percentage DECIMAL(5,2),
    allow_backlogs BOOLEAN NOT NULL DEFAULT FALSE,
    eligible_branches JSONB NOT NULL DEFAULT '[]'::jsonb,
    skills JSONB NOT NULL DEFAULT '[]'::jsonb,
    deadline TIMESTAMP WITH TIME ZONE NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    counts_as_offer BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_min_ug_percentage CHECK (
        min_ug_percentage IS NULL OR (min_ug_percentage >= 0 AND min_ug_percentage <= 100)
    )
);

CREATE INDEX IF NOT EXISTS idx_jobs_is_active ON jobs(is_active) WHERE is_active = TRUE;
CREATE INDEX IF NOT EXISTS idx_jobs_deadline ON jobs(deadline);
CREATE INDEX IF NOT EXISTS idx_jobs_company ON jobs(company);
CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at DESC);
`

const migration002Down = `
DROP TABLE IF EXISTS jobs;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE APPLICATIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create applications table
-- Version: 003

-- Applications. The UNIQUE(student_id, job_id) constraint is the source of
-- truth for duplicate prevention; version backs compare-and-swap on
-- status transitions.
CREATE TABLE IF NOT EXISTS applications (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    student_id UUID NOT NULL REFERENCES student_details(id) ON DELETE RESTRICT,
    job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE RESTRICT,
    status VARCHAR(20) NOT NULL DEFAULT 'applied',
    current_stage VARCHAR(50) NOT NULL DEFAULT 'applied',
    stage_history JSONB NOT NULL DEFAULT '[]'::jsonb,
    version INTEGER NOT NULL DEFAULT 1,
    applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT uq_applications_student_job UNIQUE (student_id, job_id),
    CONSTRAINT valid_application_status CHECK (status IN (
        'applied', 'under_review', 'shortlisted', 'interviewed', 'selected', 'rejected'
    )),
    CONSTRAINT valid_version CHECK (version >= 1)
);

CREATE INDEX IF NOT EXISTS idx_applications_student_id ON applications(student_id);
CREATE INDEX IF NOT EXISTS idx_applications_job_id ON applications(job_id);
CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(status);
CREATE INDEX IF NOT EXISTS idx_applications_applied_at ON applications(applied_at DESC);
`

const migration003Down = `
DROP TABLE IF EXISTS applications;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: CREATE GRIEVANCES AND ACTIVITY LOG
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Migration: Create grievances and activity_log tables
-- Version: 004

-- Grievances. student_id is nullable to allow anonymous submissions.
CREATE TABLE IF NOT EXISTS grievances (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    student_id UUID REFERENCES student_details(id) ON DELETE SET NULL,
    type VARCHAR(50) NOT NULL DEFAULT '',
    subject VARCHAR(200) NOT NULL,
    description TEXT NOT NULL,
    contact_email VARCHAR(255) NOT NULL DEFAULT '',
    priority VARCHAR(10) NOT NULL DEFAULT 'medium',
    status VARCHAR(20) NOT NULL DEFAULT 'submitted',
    response TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_priority CHECK (priority IN ('low', 'medium', 'high')),
    CONSTRAINT valid_grievance_status CHECK (status IN ('submitted', 'in_progress', 'resolved'))
);

CREATE INDEX IF NOT EXISTS idx_grievances_status ON grievances(status);
CREATE INDEX IF NOT EXISTS idx_grievances_priority ON grievances(priority);
CREATE INDEX IF NOT EXISTS idx_grievances_created_at ON grievances(created_at DESC);

-- Activity log feeding the admin dashboard feed. Written by event
-- handlers, read newest first.
CREATE TABLE IF NOT EXISTS activity_log (
    id SERIAL PRIMARY KEY,
    event_type VARCHAR(50) NOT NULL,
    aggregate_id UUID,
    actor_id UUID,
    summary TEXT NOT NULL,
    payload JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_activity_log_created_at ON activity_log(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_activity_log_event_type ON activity_log(event_type);
`

const migration004Down = `
DROP TABLE IF EXISTS activity_log;
DROP TABLE IF EXISTS grievances;
`
