// internal/mailer/templates.go
package mailer

import (
	"fmt"

	"mangotango-admin/internal/common/config"
	"mangotango-admin/internal/models"
)

func renderApprovalHTML(rec models.TechnicianRecord, cfg config.MailConfig) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 650px; margin: auto; padding: 20px; color:#333; line-height: 1.6;">

    <h2 style="color:#2E7D32;">Congratulations, %s!</h2>

    <p>We are pleased to inform you that your <strong>MangoTango Technician Account</strong> has been <strong>successfully approved</strong>.</p>

    <p>You are now officially part of our growing network of agricultural support professionals dedicated to helping farmers and enhancing our agricultural community.</p>

    <hr style="border:0; border-top:1px solid #ddd; margin: 25px 0;">

    <h3 style="color:#2E7D32;">What You Can Do Now</h3>

    <ul>
        <li>Provide <strong>expert consultations</strong> to farmers</li>
        <li><strong>Post and manage seminars</strong> or educational agricultural events</li>
        <li>Access your personalized <strong>Technician Dashboard</strong></li>
        <li>Update your <strong>profile and specialization</strong> details</li>
    </ul>

    <div style="background:white; padding:20px; border-radius:8px; margin:20px 0; border-left:4px solid #2E7D32;">
        <h3>Your Account Details:</h3>
        <ul>
            <li><strong>Name:</strong> %s</li>
            <li><strong>Email:</strong> %s</li>
            <li><strong>Expertise:</strong> %s</li>
            <li><strong>Status:</strong> <span style="color:#2E7D32;">Approved</span></li>
        </ul>
    </div>

    <p>You can now log in to the MangoTango Technician Portal using your registered email address:</p>

    <p style="margin-top: 15px;">
        <a href="%s"
           style="background:#2E7D32; padding:12px 20px; color:white; text-decoration:none; border-radius:6px; font-weight:bold;">
            Go to MangoTango Technician Portal
        </a>
    </p>

    <hr style="border:0; border-top:1px solid #ddd; margin: 25px 0;">

    <h3>Need Help?</h3>
    <p>If you have any questions or need assistance, feel free to contact us:</p>
    <p><strong>%s</strong></p>

    <p style="margin-top: 35px;">Warm regards,<br><strong>%s Team</strong></p>

    <br>

    <div style="text-align:center; font-size:12px; color:#888;">
        &copy; 2025 MangoTango. All rights reserved.<br>
        This is an automated email, please do not reply.
    </div>

</div>`,
		rec.FullName(), rec.FullName(), rec.Email, rec.DisplayExpertise(),
		cfg.PortalURL, cfg.SupportEmail, cfg.FromName)
}

func renderApprovalText(rec models.TechnicianRecord, cfg config.MailConfig) string {
	return fmt.Sprintf(`ACCOUNT APPROVED - Welcome to MangoTango!

Dear %s,

Congratulations! Your technician account has been successfully approved by our administration team.

ACCOUNT DETAILS:
- Name: %s
- Email: %s
- Expertise: %s
- Status: Approved

NEXT STEPS:
1. You can now log in to your account using your registration credentials
2. Visit our technician portal to start exploring opportunities: %s
3. Complete your profile if you haven't already
4. Start connecting with potential clients

NEED HELP?
Admin Support: %s

Welcome to the MangoTango family! We're excited to have you on board.

Best regards,
%s Team
`,
		rec.FullName(), rec.FullName(), rec.Email, rec.DisplayExpertise(),
		cfg.PortalURL, cfg.SupportEmail, cfg.FromName)
}

func renderApprovalSMS(rec models.TechnicianRecord) string {
	return fmt.Sprintf("MangoTango: %s, your technician account has been approved. You can now log in to the technician portal.", rec.FirstName)
}

func renderRejectionHTML(rec models.TechnicianRecord, reason string, cfg config.MailConfig) string {
	reasonBlock := ""
	if reason != "" {
		reasonBlock = fmt.Sprintf(`
    <p><strong>Reason for Decline:</strong></p>
    <div style="background:#f8d7da; padding:12px; border-left:4px solid #B00020; border-radius:4px; margin-bottom:15px;">
        <em>%s</em>
    </div>`, reason)
	}

	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 650px; margin: auto; padding: 20px; color:#333; line-height: 1.6;">

    <h2 style="color:#B00020;">Application Update for %s</h2>

    <p>Thank you for your interest in joining the <strong>MangoTango Technician Team</strong>. After reviewing your application, we regret to inform you that it has not been approved at this time.</p>
%s
    <p>Please know that this decision does not prevent you from applying again in the future. We encourage you to review your information, update your qualifications if needed, and reapply when you are ready.</p>

    <hr style="border:0; border-top:1px solid #ddd; margin: 25px 0;">

    <h3>Need Assistance?</h3>
    <p>If you believe this decision was made in error or if you have any questions, feel free to reach out to our support team:</p>

    <p><strong>%s</strong></p>

    <p>We appreciate your interest in contributing to the agricultural community and hope to hear from you again.</p>

    <p style="margin-top: 35px;">Sincerely,<br><strong>%s Team</strong></p>

    <br>

    <div style="text-align:center; font-size:12px; color:#888;">
        &copy; 2025 MangoTango. All rights reserved.<br>
        This is an automated email, please do not reply.
    </div>

</div>`, rec.FullName(), reasonBlock, cfg.SupportEmail, cfg.FromName)
}

func renderRejectionText(rec models.TechnicianRecord, reason string, cfg config.MailConfig) string {
	reasonLine := ""
	if reason != "" {
		reasonLine = fmt.Sprintf("\nReason for decline: %s\n", reason)
	}

	return fmt.Sprintf(`Dear %s,

Thank you for your interest in joining the MangoTango Technician Team. After reviewing your application, we regret to inform you that it has not been approved at this time.
%s
This decision does not prevent you from applying again in the future. We encourage you to review your information, update your qualifications if needed, and reapply when you are ready.

If you have any questions, contact us at %s.

Sincerely,
%s Team
`, rec.FullName(), reasonLine, cfg.SupportEmail, cfg.FromName)
}
